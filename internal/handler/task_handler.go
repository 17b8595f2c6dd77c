package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"assistant-go/internal/middleware"
	"assistant-go/internal/repository"
	"assistant-go/internal/service"
)

// TaskHandler handles the task REST endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler instance.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var in service.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{"task": task, "formattedId": task.FormattedID()})
}

// List handles GET /tasks with optional status, priority, tag and
// delegatedTo filters.
func (h *TaskHandler) List(c *gin.Context) {
	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Tag:      c.Query("tag"),
	}
	if raw := c.Query("delegatedTo"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid delegatedTo")
			return
		}
		filter.DelegatedTo = uint(id)
	}

	tasks, err := h.taskService.List(middleware.UserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tasks)
}

// Search handles GET /tasks/search?q=.
func (h *TaskHandler) Search(c *gin.Context) {
	tasks, err := h.taskService.Search(middleware.UserID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tasks)
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.Get(middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task, "formattedId": task.FormattedID()})
}

// Update handles PUT /tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.UpdateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	task, err := h.taskService.Update(middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task, "formattedId": task.FormattedID()})
}

// UpdateStatus handles PUT /tasks/:id/status.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status      string `json:"status" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}

	task, err := h.taskService.UpdateStatus(middleware.UserID(c), id, req.Status, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task, "formattedId": task.FormattedID()})
}

// Delegate handles PUT /tasks/:id/delegate.
func (h *TaskHandler) Delegate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PersonName string `json:"personName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "personName is required")
		return
	}

	task, err := h.taskService.Delegate(middleware.UserID(c), id, req.PersonName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"task": task, "formattedId": task.FormattedID()})
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.Delete(middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
