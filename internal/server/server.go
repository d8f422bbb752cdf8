// Package server exposes the data service over HTTP, so the fixture data
// can back other clients during development.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/service"
)

// Server provides HTTP handlers over the task data service.
type Server struct {
	engine *gin.Engine
	api    service.API
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(api service.API, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine: router,
		api:    api,
		logger: logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/profile", s.handleProfile)
		api.GET("/assignees", s.handleAssignees)

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST(":id/invite", s.handleInvite)
			projects.GET(":id/tasks", s.handleListTasks)
			projects.POST(":id/tasks", s.handleCreateTask)
			projects.GET(":id/tasks/:taskID", s.handleGetTask)
			projects.PATCH(":id/tasks/:taskID", s.handleUpdateTask)
			projects.DELETE(":id/tasks/:taskID", s.handleDeleteTask)
		}

		api.GET("/tasks", s.handleAllTasks)
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs the error and returns a JSON payload, mapping
// machine-readable error codes to HTTP status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperr.ProjectNotFound, apperr.TaskNotFound,
		apperr.AssigneeNotFound, apperr.UserNotFound:
		status = http.StatusNotFound
	case apperr.ValidationFailed, apperr.InvalidStatus,
		apperr.InvalidDate, apperr.InvalidInput:
		status = http.StatusBadRequest
	}

	payload := gin.H{"error": appErr.Message, "code": appErr.Code}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.JSON(status, payload)
}
