// Package settings holds per-device preferences and the static catalogues
// the search form is built from.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// ThemeKey is the record holding the theme preference.
const ThemeKey = "theme"

// Suggestions are the example prompts offered on the search form.
var Suggestions = []string{
	"Cozy bookstores with cafes",
	"Rooftop bars with a view",
	"Insta-worthy brunch spots",
	"Secluded beaches for sunset",
	"Artisan coffee shops",
	"Quiet parks for a picnic",
	"Vintage record stores",
	"Authentic street food stalls",
	"Gardens or arboretums",
	"Unique photo opportunities",
}

// Category is one entry of the filter catalogue.
type Category struct {
	ID    models.PlaceCategory `json:"id"`
	Label string               `json:"label"`
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Theme(ctx context.Context, deviceID string) models.Theme
	SetTheme(ctx context.Context, deviceID string, theme models.Theme) error
	ToggleTheme(ctx context.Context, deviceID string) (models.Theme, error)
	Suggestions() []string
	Categories() []Category
}

type ServiceImpl struct {
	store  storage.Store
	logger *zap.Logger
}

func NewService(store storage.Store, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		store:  store,
		logger: logger,
	}
}

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (models.Theme, error) {
	switch t := models.Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case models.ThemeLight, models.ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", models.ErrValidation, s)
	}
}

// Theme returns the stored preference, light when unset or unreadable.
func (s *ServiceImpl) Theme(ctx context.Context, deviceID string) models.Theme {
	raw, err := storage.Namespace(s.store, deviceID).Get(ctx, ThemeKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Failed to read theme", zap.String("device_id", deviceID), zap.Error(err))
		}
		return models.ThemeLight
	}
	theme, err := ParseTheme(raw)
	if err != nil {
		return models.ThemeLight
	}
	return theme
}

func (s *ServiceImpl) SetTheme(ctx context.Context, deviceID string, theme models.Theme) error {
	theme, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}
	if err := storage.Namespace(s.store, deviceID).Set(ctx, ThemeKey, string(theme)); err != nil {
		s.logger.Error("Failed to save theme", zap.String("device_id", deviceID), zap.Error(err))
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *ServiceImpl) ToggleTheme(ctx context.Context, deviceID string) (models.Theme, error) {
	next := models.ThemeDark
	if s.Theme(ctx, deviceID) == models.ThemeDark {
		next = models.ThemeLight
	}
	if err := s.SetTheme(ctx, deviceID, next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *ServiceImpl) Suggestions() []string {
	out := make([]string, len(Suggestions))
	copy(out, Suggestions)
	return out
}

// Categories lists the filterable categories with display labels.
func (s *ServiceImpl) Categories() []Category {
	title := cases.Title(language.English)
	out := make([]Category, len(models.PlaceCategories))
	for i, c := range models.PlaceCategories {
		out[i] = Category{ID: c, Label: title.String(string(c))}
	}
	return out
}
