// Package api exposes the task-plan service over HTTP with JSON bodies.
// The wire format uses the camelCase field names carried by the model
// types; error translation from domain errors to status codes lives in
// respond.go.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskmill/taskmill/internal/service"
)

// Server wraps the gin router around the service layer.
type Server struct {
	svc    *service.Service
	router *gin.Engine
}

// NewServer builds the router with all routes registered.
func NewServer(svc *service.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{svc: svc, router: router}

	router.POST("/projects/generate", s.handleGenerateProject)
	router.GET("/projects", s.handleListProjects)
	router.GET("/projects/:id/tasks", s.handleProjectTasks)
	router.DELETE("/projects/:id", s.handleDeleteProject)
	router.POST("/projects/:id/tasks", s.handleAddTask)

	router.GET("/tasks/:id", s.handleGetTask)
	router.PUT("/tasks/:id", s.handleUpdateStatus)
	router.PATCH("/tasks/:id", s.handlePatchTask)
	router.DELETE("/tasks/:id", s.handleDeleteTask)

	return s
}

// Handler exposes the router as an http.Handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	slog.Info("http server listening", "addr", addr)
	return s.router.Run(addr)
}

// requestLogger assigns each request an id and logs method, path, status
// and duration through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		slog.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
