package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  Catalog
	Database Pinger

	// Audit trail (optional)
	AuditReader AuditReader

	// Task queue (optional)
	CleanupTrigger CleanupTrigger
	TaskStatus     TaskStatusReader
	TaskQueue      Pinger

	// Metrics (optional)
	Metrics     MetricsProvider
	MetricsPath string

	RequestTimeout time.Duration

	// Application info
	Version string
}

// MetricsProvider supplies request instrumentation and the scrape handler.
type MetricsProvider interface {
	SummaryObserver
	Middleware() gin.HandlerFunc
	Handler() http.Handler
}
