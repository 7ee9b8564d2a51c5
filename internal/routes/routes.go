package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/FACorreiaa/hidden-gems/docs" // swagger docs

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/favorites"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/gemsapi"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/recents"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/reviews"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/session"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/settings"
	"github.com/FACorreiaa/hidden-gems/internal/app/middleware"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/config"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// Dependencies are the long-lived pieces the server builds before routing.
type Dependencies struct {
	Config   *config.Config
	Store    storage.Store
	Sessions *session.Registry
	Limiter  *middleware.RateLimiter
}

type AppHandlers struct {
	Gems *gemsapi.Handler
}

func Setup(r *gin.Engine, deps Dependencies, log *zap.Logger) {
	handlers := setupDependencies(deps, log)
	setupRouter(r, handlers, deps)
}

func setupDependencies(deps Dependencies, log *zap.Logger) *AppHandlers {
	favoritesRepo := favorites.NewRepository(deps.Store, log)
	recentsRepo := recents.NewRepository(deps.Store, log)
	reviewsRepo := reviews.NewRepository(deps.Store, log)

	uploadDelay := reviews.DefaultUploadDelay
	if deps.Config != nil {
		uploadDelay = deps.Config.ReviewUploadDelay.Duration
	}

	return &AppHandlers{
		Gems: gemsapi.NewHandler(
			deps.Sessions,
			favorites.NewService(favoritesRepo, log),
			recents.NewService(recentsRepo, log),
			reviews.NewService(reviewsRepo, uploadDelay, log),
			settings.NewService(deps.Store, log),
			log,
		),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, deps Dependencies) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": deps.Sessions.Stats(),
		})
	})

	swaggerUI := httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)
	r.GET("/swagger/*any", func(c *gin.Context) {
		// The UI needs its own scripts and styles.
		c.Header("Content-Security-Policy", "default-src 'self' 'unsafe-inline'; img-src 'self' data:")
		swaggerUI.ServeHTTP(c.Writer, c.Request)
	})

	var searchGuards []gin.HandlerFunc
	if deps.Limiter != nil {
		searchGuards = append(searchGuards, deps.Limiter.Middleware())
	}
	h.Gems.RegisterRoutes(r, searchGuards...)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
