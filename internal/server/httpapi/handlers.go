package httpapi

import (
	"errors"
	"net/http"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/server/models"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type mfaRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type noteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// signUp creates the account and returns the TOTP provisioning QR as a data
// URL. The response never includes the raw secret; the QR is its only
// exposure to the client.
func (s *Server) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing credentials"})
		return
	}

	enrollment, err := s.auth.SignUp(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing credentials"})
		case errors.Is(err, common.ErrAlreadyExists):
			s.logger.Warn(c.Request.Context(), "signup for existing user", "username", req.Username)
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		case errors.Is(err, common.ErrProvisioningFailed):
			s.logger.Error(c.Request.Context(), "QR generation failed", "username", req.Username)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "QR generation failed"})
		default:
			s.logger.Error(c.Request.Context(), "signup failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		}
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "username", req.Username)
	c.JSON(http.StatusOK, gin.H{"qrCode": enrollment.QRCode})
}

func (s *Server) verifySetup(c *gin.Context) {
	var req mfaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	verified, err := s.auth.VerifySetup(c.Request.Context(), req.Username, req.Token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "mfa setup verification failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		return
	}

	s.logger.Info(c.Request.Context(), "mfa setup verification", "username", req.Username, "verified", verified)
	c.JSON(http.StatusOK, gin.H{"verified": verified})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	if err := s.auth.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.logger.Warn(c.Request.Context(), "invalid login credentials", "username", req.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"success": false})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) verifyLogin(c *gin.Context) {
	var req mfaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	token, err := s.auth.VerifyLogin(c.Request.Context(), req.Username, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
		case errors.Is(err, common.ErrUnauthorized):
			s.logger.Warn(c.Request.Context(), "invalid MFA token", "username", req.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"verified": false})
		default:
			s.logger.Error(c.Request.Context(), "mfa login failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		}
		return
	}

	s.logger.Info(c.Request.Context(), "mfa verified, token issued", "username", req.Username)
	c.JSON(http.StatusOK, gin.H{"verified": true, "token": token})
}

func (s *Server) createNote(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	note, err := s.notes.Create(c.Request.Context(), caller.UserID, req.Title, req.Content, req.Tags)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title and content are required"})
			return
		}
		s.logger.Error(c.Request.Context(), "note creation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		return
	}

	s.logger.Info(c.Request.Context(), "note created", "username", caller.Username, "note_id", note.ID)
	c.JSON(http.StatusOK, note)
}

func (s *Server) listNotes(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	result, err := s.notes.List(c.Request.Context(), caller.UserID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "note listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) updateNote(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var patch models.NotePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	note, err := s.notes.Update(c.Request.Context(), caller.UserID, c.Param("id"), &patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "note update failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	if err := s.notes.Delete(c.Request.Context(), caller.UserID, c.Param("id")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "note deletion failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
