package server

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/hidden-gems/internal/app/middleware"
	"github.com/FACorreiaa/hidden-gems/internal/routes"
)

const (
	sessionName = "gems_session"
	// Bodies larger than this are not copied into access logs.
	maxLoggedBody = 4 << 10
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := s.GetLogger()
	cfg := s.GetConfig()

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.Observability.ServiceName))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())
	r.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte(cfg.Session.Secret))))
	r.Use(middleware.DeviceMiddleware(logger))

	routes.Setup(r, routes.Dependencies{
		Config:   cfg,
		Store:    s.Store(),
		Sessions: s.Registry(),
		Limiter:  s.RateLimiter(),
	}, logger)

	return r
}

// zapContextFunc adds request, trace and device fields to access logs.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if id := middleware.GetDeviceIDFromContext(c); id != "" {
			fields = append(fields, zap.String("device_id", id))
		}

		// Reads and restores the body.
		if c.Request.Body != nil && c.Request.ContentLength > 0 && c.Request.ContentLength <= maxLoggedBody {
			var buf bytes.Buffer
			tee := io.TeeReader(c.Request.Body, &buf)
			body, _ := io.ReadAll(tee)
			c.Request.Body = io.NopCloser(&buf)
			if len(body) > 0 {
				fields = append(fields, zap.String("body", string(body)))
			}
		}

		return fields
	}
}
