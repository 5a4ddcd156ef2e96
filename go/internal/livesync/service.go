package livesync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/gamematch"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/quarters"
)

// SyncApp defines what the HTTP service needs from the sync application
type SyncApp interface {
	Sync(ctx context.Context, req SyncRequest) (*SyncResult, error)
	SetLiveSync(ctx context.Context, enabled bool) error
	LockQuarter(ctx context.Context, quarter int) (bool, error)
	UnlockQuarter(ctx context.Context, quarter int) (bool, error)
	ResendQuarter(ctx context.Context, quarter int) (*ResendResult, error)
	EmailStatus(ctx context.Context) ([]models.QuarterEmailStatus, error)
	Status(ctx context.Context) (*models.GameConfig, error)
}

// Service exposes the admin sync surface as JSON over HTTP
type Service struct {
	app   SyncApp
	admin gin.HandlerFunc
}

// NewService creates a new admin sync service. A nil admin handler leaves the
// routes unprotected.
func NewService(app SyncApp, admin gin.HandlerFunc) *Service {
	return &Service{
		app:   app,
		admin: admin,
	}
}

// Register mounts the admin routes under /api/admin
func (s *Service) Register(r gin.IRouter) {
	admin := r.Group("/api/admin")
	if s.admin != nil {
		admin.Use(s.admin)
	}

	admin.POST("/sync", s.handleSync)
	admin.GET("/sync/status", s.handleStatus)
	admin.POST("/live-sync", s.handleLiveSync)
	admin.GET("/email-status", s.handleEmailStatus)

	quarter := admin.Group("/quarters/:quarter", s.bindQuarter)
	quarter.POST("/lock", s.handleLock)
	quarter.POST("/unlock", s.handleUnlock)
	quarter.POST("/resend", s.handleResend)
}

type syncResponse struct {
	*SyncResult
	Error     string   `json:"error,omitempty"`
	Available []string `json:"available,omitempty"`
}

func (s *Service) handleSync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.app.Sync(c.Request.Context(), req)
	if err == nil {
		c.JSON(http.StatusOK, result)
		return
	}

	var nf *gamematch.NotFoundError
	switch {
	case errors.Is(err, quarters.ErrInvalidQuarter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, syncResponse{SyncResult: result, Error: err.Error(), Available: nf.Available})
	case errors.Is(err, ErrFeedUnavailable):
		c.JSON(http.StatusBadGateway, syncResponse{SyncResult: result, Error: err.Error()})
	default:
		log.Error().Err(err).Msg("sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
	}
}

func (s *Service) handleStatus(c *gin.Context) {
	cfg, err := s.app.Status(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load sync status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load status"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type liveSyncRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (s *Service) handleLiveSync(c *gin.Context) {
	var req liveSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}
	if err := s.app.SetLiveSync(c.Request.Context(), *req.Enabled); err != nil {
		log.Error().Err(err).Msg("failed to toggle live sync")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle live sync"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"live_sync_enabled": *req.Enabled})
}

func (s *Service) handleEmailStatus(c *gin.Context) {
	status, err := s.app.EmailStatus(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load email status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load email status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quarters": status})
}

const quarterKey = "quarter"

// bindQuarter parses and validates the :quarter path parameter
func (s *Service) bindQuarter(c *gin.Context) {
	q, err := strconv.Atoi(c.Param("quarter"))
	if err == nil {
		err = quarters.Validate(q)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "quarter must be 1-4"})
		return
	}
	c.Set(quarterKey, q)
	c.Next()
}

func (s *Service) handleLock(c *gin.Context) {
	q := c.GetInt(quarterKey)
	changed, err := s.app.LockQuarter(c.Request.Context(), q)
	s.quarterResponse(c, q, gin.H{"quarter": q, "locked": true, "changed": changed}, err)
}

func (s *Service) handleUnlock(c *gin.Context) {
	q := c.GetInt(quarterKey)
	changed, err := s.app.UnlockQuarter(c.Request.Context(), q)
	s.quarterResponse(c, q, gin.H{"quarter": q, "locked": false, "changed": changed}, err)
}

func (s *Service) handleResend(c *gin.Context) {
	q := c.GetInt(quarterKey)
	result, err := s.app.ResendQuarter(c.Request.Context(), q)
	s.quarterResponse(c, q, result, err)
}

func (s *Service) quarterResponse(c *gin.Context, q int, resp any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, quarters.ErrInvalidQuarter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Int("quarter", q).Str("path", c.FullPath()).Msg("quarter action failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "quarter action failed"})
	}
}
