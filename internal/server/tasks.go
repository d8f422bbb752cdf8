package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/model"
)

// handleListTasks fetches tasks for a project.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.api.FetchTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// handleAllTasks fetches tasks across all projects.
func (s *Server) handleAllTasks(c *gin.Context) {
	tasks, err := s.api.FetchAllTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// handleGetTask fetches one task by project and task ID.
func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.api.FetchTask(c.Request.Context(), c.Param("id"), c.Param("taskID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleCreateTask creates a new task in a project column.
func (s *Server) handleCreateTask(c *gin.Context) {
	var fields model.TaskFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.api.CreateTask(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask applies a partial update to a task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.api.UpdateTask(c.Request.Context(), c.Param("id"), c.Param("taskID"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.api.DeleteTask(c.Request.Context(), c.Param("id"), c.Param("taskID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
