package gemsapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/session"
	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

// SessionResponse is what the renderer draws from.
type SessionResponse struct {
	Session       models.SearchSession `json:"session"`
	Places        []models.Place       `json:"places"`
	PendingSearch bool                 `json:"pendingSearch"`
}

type searchRequest struct {
	Prompt        string            `json:"prompt"`
	Mode          models.SearchMode `json:"mode"`
	LocationQuery string            `json:"locationQuery"`
}

type formRequest struct {
	Prompt        *string            `json:"prompt"`
	Mode          *models.SearchMode `json:"mode"`
	LocationQuery *string            `json:"locationQuery"`
}

type filtersRequest struct {
	Categories []models.PlaceCategory `json:"categories"`
}

func respondSession(c *gin.Context, m *session.Machine, s models.SearchSession) {
	c.JSON(http.StatusOK, SessionResponse{
		Session:       s,
		Places:        m.Filtered(),
		PendingSearch: m.PendingSearch(),
	})
}

// sessionOutcome renders the session after a transition. Failures the
// session records in its own state are not HTTP errors.
func (h *Handler) sessionOutcome(c *gin.Context, m *session.Machine, s models.SearchSession, err error, operation string) {
	switch {
	case err == nil,
		errors.Is(err, models.ErrInvalidSubmission),
		errors.Is(err, models.ErrLocationUnavailable),
		errors.Is(err, models.ErrUpstreamRequestFailed):
		respondSession(c, m, s)
	case errors.Is(err, session.ErrSuperseded):
		respondSession(c, m, m.Snapshot())
	default:
		h.handleError(c, err, operation)
	}
}

// GetSession godoc
// @Summary Current search session
// @Description Returns the device's session, restoring a recent persisted one on first access
// @Tags session
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /api/session [get]
func (h *Handler) GetSession(c *gin.Context) {
	m := h.sessions.Get(c.Request.Context(), h.deviceID(c))
	respondSession(c, m, m.Snapshot())
}

// RequestLocation applies the browser's geolocation answer.
func (h *Handler) RequestLocation(c *gin.Context) {
	var req session.ClientLocation
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "request location")
		return
	}

	ctx := c.Request.Context()
	m := h.sessions.Get(ctx, h.deviceID(c))

	var (
		s   models.SearchSession
		err error
	)
	if m.Snapshot().State == models.StateRequestingLocation {
		loc, lookupErr := req.CurrentLocation(ctx)
		s, err = m.ResolveLocation(ctx, loc, lookupErr)
	} else {
		s, err = m.RequestLocation(ctx, req)
	}
	h.sessionOutcome(c, m, s, err, "request location")
}

// UseMyLocation starts the one-tap nearby search. The body may carry the
// browser's geolocation answer; without one the session waits for
// /api/session/location.
func (h *Handler) UseMyLocation(c *gin.Context) {
	ctx := c.Request.Context()
	m := h.sessions.Get(ctx, h.deviceID(c))

	var provider session.LocationProvider
	if c.Request.ContentLength > 0 {
		var req session.ClientLocation
		if err := c.ShouldBindJSON(&req); err != nil {
			h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "use my location")
			return
		}
		provider = req
	}

	s, err := m.UseMyLocation(ctx, provider)
	h.sessionOutcome(c, m, s, err, "use my location")
}

// Search godoc
// @Summary Run a hidden gems search
// @Tags session
// @Accept json
// @Produce json
// @Param request body searchRequest true "Search"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/search [post]
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "search")
		return
	}
	if req.Mode != "" && !req.Mode.Valid() {
		h.handleError(c, fmt.Errorf("%w: unknown search mode %q", models.ErrValidation, req.Mode), "search")
		return
	}

	ctx := c.Request.Context()
	m := h.sessions.Get(ctx, h.deviceID(c))
	s, err := m.Submit(ctx, models.SearchQuery{
		Prompt:        req.Prompt,
		Mode:          req.Mode,
		LocationQuery: req.LocationQuery,
	})
	if err != nil && !errors.Is(err, models.ErrInvalidSubmission) {
		h.logger.Debug("Search did not produce results", zap.Error(err))
	}
	h.sessionOutcome(c, m, s, err, "search")
}

// UpdateForm stores the search form fields without searching.
func (h *Handler) UpdateForm(c *gin.Context) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "update form")
		return
	}

	m := h.sessions.Get(c.Request.Context(), h.deviceID(c))
	if req.Mode != nil {
		if err := m.SetMode(*req.Mode); err != nil {
			h.handleError(c, err, "update form")
			return
		}
	}
	if req.Prompt != nil {
		m.SetPrompt(*req.Prompt)
	}
	if req.LocationQuery != nil {
		m.SetLocationQuery(*req.LocationQuery)
	}
	respondSession(c, m, m.Snapshot())
}

func (h *Handler) SetFilters(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "set filters")
		return
	}

	ctx := c.Request.Context()
	m := h.sessions.Get(ctx, h.deviceID(c))
	s, err := m.SetFilters(ctx, req.Categories)
	if err != nil {
		h.handleError(c, err, "set filters")
		return
	}
	respondSession(c, m, s)
}

func (h *Handler) ToggleFilter(c *gin.Context) {
	ctx := c.Request.Context()
	m := h.sessions.Get(ctx, h.deviceID(c))
	s, err := m.ToggleFilter(ctx, models.PlaceCategory(c.Param("category")))
	if err != nil {
		h.handleError(c, err, "toggle filter")
		return
	}
	respondSession(c, m, s)
}
