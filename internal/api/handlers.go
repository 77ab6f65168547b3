package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmill/taskmill/internal/models"
)

// generateRequest is the body of POST /projects/generate.
type generateRequest struct {
	Prompt string `json:"prompt"`
}

// statusRequest is the body of PUT /tasks/:id.
type statusRequest struct {
	Status models.TaskStatus `json:"status"`
}

func (s *Server) handleGenerateProject(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	project, err := s.svc.GeneratePlan(c.Request.Context(), req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.svc.Projects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleProjectTasks(c *gin.Context) {
	project, err := s.svc.Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddTask(c *gin.Context) {
	var draft models.TaskDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBadRequest(c, err)
		return
	}

	task, err := s.svc.AddTask(c.Request.Context(), c.Param("id"), &draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.svc.Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	task, err := s.svc.SetTaskStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handlePatchTask(c *gin.Context) {
	var update models.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, err)
		return
	}

	task, err := s.svc.UpdateTask(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	found, err := s.svc.DeleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, errorBody{
			Error: (&models.NotFoundError{Entity: "task", ID: c.Param("id")}).Error(),
			Code:  "NOT_FOUND",
		})
		return
	}
	c.Status(http.StatusNoContent)
}
