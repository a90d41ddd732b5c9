package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/locallibrary/internal/catalog"
)

type fakeTrigger struct {
	id  string
	err error
}

func (f *fakeTrigger) RunNow(ctx context.Context) (string, error) {
	return f.id, f.err
}

type fakeStatus map[string]backlite.TaskStatus

func (f fakeStatus) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	if status, ok := f[taskID]; ok {
		return status, nil
	}
	return backlite.TaskStatusNotFound, nil
}

func newTasksRouter(trigger CleanupTrigger, status TaskStatusReader) *gin.Engine {
	controller := NewTasksController(trigger, status)
	router := gin.New()
	router.POST("/catalog/audit/cleanup", controller.RunAuditCleanup)
	router.GET("/tasks/:id", controller.GetTaskStatus)
	return router
}

func TestTasksController_RunAuditCleanup(t *testing.T) {
	t.Run("accepts and returns the task id", func(t *testing.T) {
		router := newTasksRouter(&fakeTrigger{id: "task-1"}, fakeStatus{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/catalog/audit/cleanup", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusAccepted, w.Code)
		var info TaskInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, "task-1", info.ID)
		assert.Equal(t, "cleanup_audit_events", info.Queue)
		assert.Equal(t, "pending", info.Status)
	})

	t.Run("enqueue failure is a server error", func(t *testing.T) {
		router := newTasksRouter(&fakeTrigger{err: errors.New("queue closed")}, fakeStatus{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/catalog/audit/cleanup", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	router := newTasksRouter(&fakeTrigger{}, fakeStatus{
		"done":    backlite.TaskStatusSuccess,
		"running": backlite.TaskStatusRunning,
	})

	tests := []struct {
		id         string
		wantCode   int
		wantStatus string
	}{
		{"done", http.StatusOK, "success"},
		{"running", http.StatusOK, "running"},
		{"missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/tasks/"+tt.id, nil)
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantStatus != "" {
				var info TaskInfo
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
				assert.Equal(t, tt.wantStatus, info.Status)
			}
		})
	}
}

// slowSummarizer blocks until its context ends.
type slowSummarizer struct{}

func (slowSummarizer) Summarize(ctx context.Context) (*catalog.Summary, error) {
	<-ctx.Done()
	return nil, &catalog.StoreError{Op: "count", Kind: "book", Err: ctx.Err()}
}

type durationRecorder struct {
	observed []time.Duration
}

func (d *durationRecorder) ObserveSummary(dur time.Duration) {
	d.observed = append(d.observed, dur)
}

func TestTimeoutMiddleware_CancelsSummary(t *testing.T) {
	observer := &durationRecorder{}
	controller := NewSummaryController(slowSummarizer{}, observer)

	router := gin.New()
	router.Use(TimeoutMiddleware(20 * time.Millisecond))
	router.GET("/catalog", controller.Summary)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/catalog", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Len(t, observer.observed, 1)
	assert.GreaterOrEqual(t, observer.observed[0], 20*time.Millisecond)
}
