package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type inviteRequest struct {
	UserIDs []string `json:"userIds"`
}

// handleListProjects returns all projects.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.api.FetchProjects(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// handleProfile returns the current user's profile.
func (s *Server) handleProfile(c *gin.Context) {
	profile, err := s.api.FetchUserProfile(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// handleAssignees returns the assignable user directory.
func (s *Server) handleAssignees(c *gin.Context) {
	assignees, err := s.api.FetchAssignees(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignees": assignees})
}

// handleInvite invites users to a project.
func (s *Server) handleInvite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.UserIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userIds is required"})
		return
	}

	if err := s.api.InviteUsersToProject(c.Request.Context(), c.Param("id"), req.UserIDs); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "invited"})
}
