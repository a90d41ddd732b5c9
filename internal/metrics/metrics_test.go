package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Observe(context.Background(), catalog.Event{Kind: entities.KindGenre, Op: catalog.OpCreate, Outcome: catalog.OutcomeReused})
	m.Observe(context.Background(), catalog.Event{Kind: entities.KindGenre, Op: catalog.OpCreate, Outcome: catalog.OutcomeReused})
	m.Observe(context.Background(), catalog.Event{Kind: entities.KindBook, Op: catalog.OpDelete, Outcome: catalog.OutcomeBlocked})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.mutations.WithLabelValues("genre", "create", "reused")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mutations.WithLabelValues("book", "delete", "blocked")))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/catalog/book/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	req := httptest.NewRequest(http.MethodGet, "/catalog/book/abc", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	m.ObserveSummary(5 * time.Millisecond)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `http_request_duration_seconds_count{method="GET",route="/catalog/book/:id",status="404"} 1`)
	assert.Contains(t, body, "catalog_summary_duration_seconds_count 1")
}
