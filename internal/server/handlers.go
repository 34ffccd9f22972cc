package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loan-intake/internal/common/errors"
	"loan-intake/internal/files"
	"loan-intake/internal/submission"
)

// handleApply accepts the multipart intake form, runs the submission
// pipeline, and mirrors its outcome into the response body.
func (s *Server) handleApply(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid form submission",
		})
		return
	}

	form := submission.FormFromValues(c.PostForm)

	var uploads []files.Upload
	passwords := make(map[string]string)
	for _, slot := range files.Slots {
		passwords[slot] = c.PostForm(slot + "_password")

		fh, err := c.FormFile(slot)
		if err != nil || fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			s.logger.Warn("failed to open uploaded file", map[string]interface{}{
				"error": err,
				"field": slot,
			})
			continue
		}
		defer f.Close()
		uploads = append(uploads, files.Upload{
			Field:    slot,
			Filename: fh.Filename,
			Content:  f,
		})
	}

	outcome, err := s.orchestrator.Submit(c.Request.Context(), &form, uploads, passwords)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// writeError maps pipeline errors onto HTTP statuses. Validation details
// go back to the caller; everything else stays in the logs.
func (s *Server) writeError(c *gin.Context, err error) {
	switch errors.CodeOf(err) {
	case errors.ErrCodeValidationMissingFields, errors.ErrCodeValidationInvalidNumber:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": errors.DetailsOf(err),
		})
	case errors.ErrCodeApplicationNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Application not found",
		})
	default:
		s.logger.Error("request failed", map[string]interface{}{
			"error":     errors.DetailsOf(err),
			"code":      errors.CodeOf(err),
			"requestId": c.GetString("requestId"),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "An error occurred while processing your application. Please try again.",
		})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if _, err := s.store.CountApplications(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"name":    s.cfg.App.Name,
			"version": s.cfg.App.Version,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

// handleStatus reports deeper operational detail: database reachability,
// stored application count, uploads directory state, and email readiness.
func (s *Server) handleStatus(c *gin.Context) {
	status := gin.H{
		"status":           "ok",
		"uptime_seconds":   int64(s.uptime().Seconds()),
		"email_configured": s.notifier.IsConfigured(),
	}

	count, err := s.store.CountApplications(c.Request.Context())
	if err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	} else {
		status["database"] = "ok"
		status["applications"] = count
	}

	structure := s.filesRepo.Structure()
	status["uploads"] = gin.H{
		"path_exists":   structure.PathExists,
		"total_folders": structure.TotalFolders,
		"total_files":   structure.TotalFiles,
	}

	c.JSON(http.StatusOK, status)
}

func (s *Server) handleEmailConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"provider":   s.cfg.Email.Provider,
		"from":       s.cfg.Email.From,
		"recipient":  s.cfg.Email.Recipient,
		"configured": s.notifier.IsConfigured(),
	})
}

// handleEmailTest establishes and tears down a mail session without
// sending anything.
func (s *Server) handleEmailTest(c *gin.Context) {
	if err := s.notifier.TestConnection(c.Request.Context()); err != nil {
		code := errors.CodeOf(err)
		status := http.StatusBadGateway
		if code == errors.ErrCodeNotificationNotConfigured {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"success": false,
			"code":    code,
			"message": errors.DetailsOf(err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email connection verified",
	})
}

func (s *Server) handleListApplications(c *gin.Context) {
	apps, err := s.store.GetAllApplications(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(apps),
		"applications": apps,
	})
}

func (s *Server) handleGetApplication(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid application id",
		})
		return
	}

	app, err := s.store.GetApplication(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	uploads, err := s.store.GetApplicationFiles(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"files":       uploads,
	})
}

func (s *Server) handleUploadStructure(c *gin.Context) {
	c.JSON(http.StatusOK, s.filesRepo.Structure())
}
