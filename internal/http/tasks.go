package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
)

// CleanupTrigger enqueues an audit cleanup outside its schedule.
type CleanupTrigger interface {
	RunNow(ctx context.Context) (string, error)
}

// TaskStatusReader reports the state of a queued task.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController handles task queue endpoints.
type TasksController struct {
	trigger CleanupTrigger
	status  TaskStatusReader
}

func NewTasksController(trigger CleanupTrigger, status TaskStatusReader) *TasksController {
	return &TasksController{trigger: trigger, status: status}
}

// TaskInfo represents basic information about a task.
type TaskInfo struct {
	ID     string `json:"id"`
	Queue  string `json:"queue,omitempty"`
	Status string `json:"status"`
}

// RunAuditCleanup enqueues an immediate audit cleanup
// POST /catalog/audit/cleanup
func (tc *TasksController) RunAuditCleanup(c *gin.Context) {
	id, err := tc.trigger.RunNow(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "enqueue audit cleanup")
		return
	}
	respondAccepted(c, TaskInfo{ID: id, Queue: "cleanup_audit_events", Status: "pending"})
}

// GetTaskStatus reports the state of a queued task
// GET /tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	id := c.Param("id")
	status, err := tc.status.Status(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}
	c.JSON(http.StatusOK, TaskInfo{ID: id, Status: taskStatusName(status)})
}

func taskStatusName(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}
