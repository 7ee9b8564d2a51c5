// Package gemsapi exposes the discovery session and side stores over JSON.
package gemsapi

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/favorites"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/recents"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/reviews"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/session"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/settings"
	"github.com/FACorreiaa/hidden-gems/internal/app/middleware"
	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

type Handler struct {
	sessions  *session.Registry
	favorites favorites.Service
	recents   recents.Service
	reviews   reviews.Service
	settings  settings.Service
	logger    *zap.Logger
}

func NewHandler(
	sessions *session.Registry,
	favoritesService favorites.Service,
	recentsService recents.Service,
	reviewsService reviews.Service,
	settingsService settings.Service,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sessions:  sessions,
		favorites: favoritesService,
		recents:   recentsService,
		reviews:   reviewsService,
		settings:  settingsService,
		logger:    logger,
	}
}

// RegisterRoutes mounts the API under r. searchGuards run before the search
// endpoints only.
func (h *Handler) RegisterRoutes(r gin.IRouter, searchGuards ...gin.HandlerFunc) {
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clip(searchGuards), handler)
	}

	api := r.Group("/api")
	{
		api.GET("/session", h.GetSession)
		api.POST("/session/location", h.RequestLocation)
		api.POST("/session/use-my-location", guarded(h.UseMyLocation)...)
		api.PUT("/session/form", h.UpdateForm)
		api.PUT("/session/filters", h.SetFilters)
		api.POST("/session/filters/:category", h.ToggleFilter)
		api.POST("/search", guarded(h.Search)...)

		api.GET("/favorites", h.ListFavorites)
		api.POST("/favorites", h.ToggleFavorite)

		api.GET("/recents", h.ListRecents)
		api.POST("/recents", h.AddRecent)

		api.GET("/reviews", h.ListReviews)
		api.POST("/reviews", h.AddReview)

		api.GET("/settings/theme", h.GetTheme)
		api.PUT("/settings/theme", h.SetTheme)
		api.POST("/settings/theme/toggle", h.ToggleTheme)

		api.GET("/suggestions", h.Suggestions)
		api.GET("/categories", h.Categories)
	}
}

func (h *Handler) deviceID(c *gin.Context) string {
	if id := middleware.GetDeviceIDFromContext(c); id != "" {
		return id
	}
	return c.ClientIP()
}

// handleError maps domain errors onto HTTP responses.
func (h *Handler) handleError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not found",
		})
	case errors.Is(err, session.ErrSearchInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrStorageUnavailable):
		h.logger.Error("Storage failure", zap.String("operation", operation), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Storage unavailable",
			"details": "Your change could not be saved. Please try again.",
		})
	default:
		h.logger.Error("Request failed", zap.String("operation", operation), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to " + operation,
			"details": session.MsgUnexpected,
		})
	}
}
