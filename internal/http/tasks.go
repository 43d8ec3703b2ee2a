package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techwave/datastation/internal/entities"
	"github.com/techwave/datastation/internal/tasks"
)

// FavoritesSource provides the snapshot pushed by a manual sync.
type FavoritesSource interface {
	List() []entities.FavoriteEntry
	Authenticated() bool
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	client    *tasks.Client
	favorites FavoritesSource
}

// NewTasksController creates a new TasksController.
func NewTasksController(client *tasks.Client, favorites FavoritesSource) *TasksController {
	return &TasksController{client: client, favorites: favorites}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "reload_catalog",
			Description: "Reload the document catalog from its source",
			Queue:       tasks.ReloadCatalogTask{}.Config().Name,
		},
		{
			Type:        "sync_favorites",
			Description: "Mirror the local favorites to the remote account",
			Queue:       tasks.SyncFavoritesTask{}.Config().Name,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID, ok := requiredParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	state, err := tc.client.State(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": state,
	})
}

// RunTask handles POST /api/tasks/:type/run
// Manually enqueues a task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var (
		taskID string
		err    error
	)
	switch taskType {
	case "reload_catalog":
		taskID, err = tc.client.EnqueueReload(c.Request.Context())

	case "sync_favorites":
		if tc.favorites == nil || !tc.favorites.Authenticated() {
			respondError(c, http.StatusForbidden, "remote favorites require login", "not_authenticated")
			return
		}
		taskID, err = tc.client.EnqueueSync(c.Request.Context(), tc.favorites.List())

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": taskID,
		"type":    taskType,
	})
}
