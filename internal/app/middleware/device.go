package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeviceIDHeader lets non-browser clients pick their own device identity.
const DeviceIDHeader = "X-Device-ID"

const (
	deviceIDKey        = "device_id"
	sessionDeviceIDKey = "device_id"
	maxDeviceIDLength  = 128
)

// DeviceMiddleware resolves the device identity that scopes every session
// and side store. The X-Device-ID header wins; otherwise the id lives in the
// session cookie and is minted on first contact.
func DeviceMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(DeviceIDHeader)); validDeviceID(id) {
			c.Set(deviceIDKey, id)
			c.Next()
			return
		}

		session := sessions.Default(c)
		id, _ := session.Get(sessionDeviceIDKey).(string)
		if !validDeviceID(id) {
			id = uuid.NewString()
			session.Set(sessionDeviceIDKey, id)
			if err := session.Save(); err != nil {
				logger.Warn("Failed to persist device session", zap.Error(err))
			}
		}
		c.Set(deviceIDKey, id)
		c.Next()
	}
}

func validDeviceID(id string) bool {
	if id == "" || len(id) > maxDeviceIDLength {
		return false
	}
	for _, r := range id {
		if r == ':' || r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// GetDeviceIDFromContext returns the identity set by DeviceMiddleware.
func GetDeviceIDFromContext(c *gin.Context) string {
	if id, ok := c.Get(deviceIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
