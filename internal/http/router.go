package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// kindRoutes are the eight handlers every record kind exposes.
type kindRoutes interface {
	List(c *gin.Context)
	Detail(c *gin.Context)
	CreateForm(c *gin.Context)
	Create(c *gin.Context)
	UpdateForm(c *gin.Context)
	Update(c *gin.Context)
	DeleteForm(c *gin.Context)
	Delete(c *gin.Context)
}

// registerKind mounts the list, detail, form and mutation routes of one kind
// under /catalog. The static "create" segment takes precedence over :id.
func registerKind(catalog *gin.RouterGroup, kind entities.Kind, routes kindRoutes) {
	catalog.GET("/"+string(kind)+"s", routes.List)

	group := catalog.Group("/" + string(kind))
	group.GET("/create", routes.CreateForm)
	group.POST("/create", routes.Create)
	group.GET("/:id", routes.Detail)
	group.GET("/:id/update", routes.UpdateForm)
	group.POST("/:id/update", routes.Update)
	group.GET("/:id/delete", routes.DeleteForm)
	group.POST("/:id/delete", routes.Delete)
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	// Health endpoints
	health := NewHealthController(cfg.Version).Check("database", cfg.Database)
	if cfg.TaskQueue != nil {
		health.Check("tasks", cfg.TaskQueue)
	}
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	catalog := router.Group("/catalog")
	catalog.Use(TimeoutMiddleware(cfg.RequestTimeout))

	var summaryObserver SummaryObserver
	if cfg.Metrics != nil {
		summaryObserver = cfg.Metrics
	}
	summary := NewSummaryController(cfg.Catalog, summaryObserver)
	catalog.GET("", summary.Summary)
	catalog.GET("/", summary.Summary)

	registerKind(catalog, entities.KindAuthor, NewAuthorsController(cfg.Catalog))
	registerKind(catalog, entities.KindGenre, NewGenresController(cfg.Catalog))
	registerKind(catalog, entities.KindBook, NewBooksController(cfg.Catalog))
	registerKind(catalog, entities.KindBookInstance, NewInstancesController(cfg.Catalog))

	// Audit trail endpoints
	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		catalog.GET("/audit", auditController.GetAuditEvents)
		catalog.GET("/audit/:kind/:id", auditController.GetRecordHistory)
	}

	// Task queue endpoints
	if cfg.CleanupTrigger != nil && cfg.TaskStatus != nil {
		tasksController := NewTasksController(cfg.CleanupTrigger, cfg.TaskStatus)
		catalog.POST("/audit/cleanup", tasksController.RunAuditCleanup)
		router.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
