package http

import (
	"errors"
	"net/http"
	"strconv"

	"stock-sentiment-tracker/internal/api/dto"
	"stock-sentiment-tracker/internal/api/service"
	"stock-sentiment-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const defaultListLimit = 50

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	taskService service.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// RegisterRoutes registers the task routes to the Echo group.
func (h *TaskHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateTask)
	g.GET("", h.GetRecentTasks)
	g.GET("/:id", h.GetTaskByID)
}

// CreateTask godoc
// @Summary Enqueue a task
// @Description Validate and insert a PENDING task for the worker to claim
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   task  body    dto.CreateTaskRequest   true    "Task to enqueue"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	taskResponse, err := h.taskService.CreateTask(c.Request().Context(), &req)
	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Reason})
		}
		h.logger.Error("Failed to enqueue task", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to enqueue task"})
	}

	return c.JSON(http.StatusCreated, taskResponse)
}

// GetTaskByID godoc
// @Summary Get a task by ID
// @Description Get a single task with its status, attempts and result payload
// @Tags tasks
// @Produce  json
// @Param   id  path    int true    "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTaskByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
	}

	taskResponse, err := h.taskService.GetTaskByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
		}
		h.logger.Error("Failed to get task", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get task"})
	}

	return c.JSON(http.StatusOK, taskResponse)
}

// GetRecentTasks godoc
// @Summary List recent tasks
// @Description List tasks newest first, optionally filtered by status
// @Tags tasks
// @Produce  json
// @Param   status  query   string  false   "Filter by status (PENDING, RUNNING, DONE, ERROR)"
// @Param   limit   query   int     false   "Maximum rows to return"
// @Success 200 {array} dto.TaskResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) GetRecentTasks(c echo.Context) error {
	tasks, err := h.taskService.GetRecentTasks(c.Request().Context(), c.QueryParam("status"), queryLimit(c))
	if err != nil {
		h.logger.Error("Failed to list tasks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list tasks"})
	}
	return c.JSON(http.StatusOK, tasks)
}

func queryLimit(c echo.Context) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}
