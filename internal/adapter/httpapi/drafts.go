package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/submit"
)

func (s *Server) createDraft(c *gin.Context) {
	locator := &deviceLocator{}
	orch := submit.New(submit.Deps{
		Locator:  locator,
		Geocoder: s.deps.Geocoder,
		Weather:  s.deps.Weather,
		Analyzer: s.deps.Analyzer,
		Store:    s.deps.Store,
		Events:   s.deps.Events,
		Reports:  s.deps.Reports,
		Logger:   s.deps.Logger,
		Metrics:  s.deps.Metrics,
	}, submit.Options{
		LocationTimeout: s.opts.LocationTimeout,
		LocationMaxAge:  s.opts.LocationMaxAge,
	})

	id := uuid.NewString()
	s.mu.Lock()
	s.drafts[id] = &draftSession{orch: orch, locator: locator}
	s.mu.Unlock()

	s.deps.Logger.Info("draft opened", "draft_id", id)
	c.JSON(http.StatusCreated, gin.H{"draft_id": id})
}

func (s *Server) getDraft(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.orch.View())
}

func (s *Server) reportPosition(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}

	var input struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *input.Latitude < -90 || *input.Latitude > 90 ||
		*input.Longitude < -180 || *input.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	session.locator.Report(domain.Coordinate{
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	})

	if _, err := session.orch.AcquireLocation(c.Request.Context()); err != nil {
		s.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.orch.View())
}

func (s *Server) fetchAddress(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	info, err := session.orch.FetchAddress(c.Request.Context())
	if err != nil {
		s.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": info.Address, "area": info.Area})
}

func (s *Server) fetchWeather(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	w, err := session.orch.FetchWeather(c.Request.Context())
	if err != nil {
		s.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) attachPhoto(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var input struct {
		PhotoBase64 string `json:"photoBase64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := session.orch.AttachPhoto(input.PhotoBase64); err != nil {
		s.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.orch.View())
}

func (s *Server) removePhoto(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	session.orch.RemovePhoto()
	c.JSON(http.StatusOK, session.orch.View())
}

func (s *Server) submitDraft(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	created, err := session.orch.Submit(c.Request.Context())
	if err != nil {
		s.draftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) cancelDraft(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	session, ok := s.drafts[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}

	if err := session.orch.Cancel(); err != nil {
		s.draftError(c, err)
		return
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	s.deps.Logger.Info("draft cancelled", "draft_id", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) session(c *gin.Context) (*draftSession, bool) {
	id := c.Param("id")
	s.mu.Lock()
	session, ok := s.drafts[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return nil, false
	}
	return session, true
}

// draftError maps orchestrator errors to HTTP statuses: unmet submission
// preconditions are 422 with the missing field named, concurrency conflicts
// are 409, and collaborator failures pass through as 502 with the upstream
// message intact.
func (s *Server) draftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, submit.ErrPhotoRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "missing": "photo"})
	case errors.Is(err, submit.ErrLocationNotReady):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "missing": "location"})
	case errors.Is(err, submit.ErrSubmitInFlight),
		errors.Is(err, submit.ErrLookupInFlight),
		errors.Is(err, submit.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, submit.ErrLookupDisabled):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
