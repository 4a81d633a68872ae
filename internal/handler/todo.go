package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapi/internal/middleware"
	"todoapi/internal/service"
)

type TodoHandler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type todoHandler struct {
	todoService service.TodoService
	logger      *zap.Logger
}

func NewTodoHandler(todoService service.TodoService, logger *zap.Logger) TodoHandler {
	return &todoHandler{todoService: todoService, logger: logger}
}

type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

func ownerID(c *gin.Context) int64 {
	return c.MustGet(middleware.ContextUserID).(int64)
}

func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// List handles GET /todo/
func (h *todoHandler) List(c *gin.Context) {
	todos, err := h.todoService.List(ownerID(c))
	if err != nil {
		h.logger.Error("Failed to list todos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todos"})
		return
	}

	c.JSON(http.StatusOK, todos)
}

// GetByID handles GET /todo/todo/:id
func (h *todoHandler) GetByID(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid todo ID"})
		return
	}

	todo, err := h.todoService.Get(id, ownerID(c))
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found!"})
			return
		}
		h.logger.Error("Failed to get todo", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todo"})
		return
	}

	c.JSON(http.StatusOK, todo)
}

// Create handles POST /todo/todo
func (h *todoHandler) Create(c *gin.Context) {
	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Failed to bind JSON for todo creation", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), ownerID(c), service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create todo", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}

	c.JSON(http.StatusCreated, todo)
}

// Update handles PUT /todo/todo/:id
func (h *todoHandler) Update(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid todo ID"})
		return
	}

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Failed to bind JSON for todo update", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	err := h.todoService.Update(id, ownerID(c), service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found!"})
			return
		}
		h.logger.Error("Failed to update todo", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /todo/todo/:id
func (h *todoHandler) Delete(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid todo ID"})
		return
	}

	err := h.todoService.Delete(id, ownerID(c))
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found!"})
			return
		}
		h.logger.Error("Failed to delete todo", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}

	c.Status(http.StatusNoContent)
}
