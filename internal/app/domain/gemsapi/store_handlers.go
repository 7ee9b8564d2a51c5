package gemsapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/reviews"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/settings"
	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (h *Handler) ListFavorites(c *gin.Context) {
	places, err := h.favorites.List(c.Request.Context(), h.deviceID(c))
	if err != nil {
		h.handleError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": places})
}

// ToggleFavorite godoc
// @Summary Add or remove a favorite place
// @Tags favorites
// @Accept json
// @Produce json
// @Param place body models.Place true "Place"
// @Success 200 {object} map[string]interface{}
// @Router /api/favorites [post]
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var place models.Place
	if err := c.ShouldBindJSON(&place); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "toggle favorite")
		return
	}

	ctx := c.Request.Context()
	device := h.deviceID(c)
	added, err := h.favorites.Toggle(ctx, device, place)
	if err != nil {
		h.handleError(c, err, "toggle favorite")
		return
	}
	places, err := h.favorites.List(ctx, device)
	if err != nil {
		h.handleError(c, err, "toggle favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorite":  added,
		"favorites": places,
	})
}

func (h *Handler) ListRecents(c *gin.Context) {
	places, err := h.recents.List(c.Request.Context(), h.deviceID(c))
	if err != nil {
		h.handleError(c, err, "list recents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recents": places})
}

// AddRecent records that a place's detail view was opened.
func (h *Handler) AddRecent(c *gin.Context) {
	var place models.Place
	if err := c.ShouldBindJSON(&place); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "add recent")
		return
	}
	places, err := h.recents.Add(c.Request.Context(), h.deviceID(c), place)
	if err != nil {
		h.handleError(c, err, "add recent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recents": places})
}

// placeRef names a place by the same parts its identity key is built from.
type placeRef struct {
	Name string   `form:"name" binding:"required"`
	Lat  *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lng  *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
}

func placeKeyFromQuery(c *gin.Context) (string, error) {
	var ref placeRef
	if err := c.ShouldBindQuery(&ref); err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	if strings.TrimSpace(ref.Name) == "" {
		return "", fmt.Errorf("%w: place name is blank", models.ErrBadRequest)
	}
	return models.PlaceKey(ref.Name, *ref.Lat, *ref.Lng), nil
}

// ListReviews godoc
// @Summary List reviews of a place
// @Tags reviews
// @Produce json
// @Param name query string true "Place name"
// @Param lat query number true "Place latitude"
// @Param lng query number true "Place longitude"
// @Success 200 {object} map[string][]models.Review
// @Failure 400 {object} map[string]string
// @Router /api/reviews [get]
func (h *Handler) ListReviews(c *gin.Context) {
	key, err := placeKeyFromQuery(c)
	if err != nil {
		h.handleError(c, err, "list reviews")
		return
	}
	list, err := h.reviews.ForPlace(c.Request.Context(), h.deviceID(c), key)
	if err != nil {
		h.handleError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": list})
}

// AddReview godoc
// @Summary Submit a review for a place
// @Description The upload is simulated and takes a moment to complete
// @Tags reviews
// @Accept json
// @Produce json
// @Param name query string true "Place name"
// @Param lat query number true "Place latitude"
// @Param lng query number true "Place longitude"
// @Param review body reviews.Submission true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} map[string]string
// @Router /api/reviews [post]
func (h *Handler) AddReview(c *gin.Context) {
	key, err := placeKeyFromQuery(c)
	if err != nil {
		h.handleError(c, err, "add review")
		return
	}
	var sub reviews.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "add review")
		return
	}
	review, err := h.reviews.Add(c.Request.Context(), h.deviceID(c), key, sub)
	if err != nil {
		h.handleError(c, err, "add review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.settings.Theme(c.Request.Context(), h.deviceID(c))})
}

func (h *Handler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, fmt.Errorf("%w: %w", models.ErrBadRequest, err), "set theme")
		return
	}
	theme, err := settings.ParseTheme(req.Theme)
	if err != nil {
		h.handleError(c, err, "set theme")
		return
	}
	if err := h.settings.SetTheme(c.Request.Context(), h.deviceID(c), theme); err != nil {
		h.handleError(c, err, "set theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *Handler) ToggleTheme(c *gin.Context) {
	theme, err := h.settings.ToggleTheme(c.Request.Context(), h.deviceID(c))
	if err != nil {
		h.handleError(c, err, "toggle theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *Handler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": h.settings.Suggestions()})
}

func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.settings.Categories()})
}
