package api

import (
	"net/http"
	"strings"
	"time"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const profileContextKey = "authenticatedProfile"

// RequestLogger attaches a request ID and logs each request with latency
// and status
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"requestID": requestID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
		}).Info("Handled request")
	}
}

// RequireAuth resolves the bearer token to a profile and aborts with 401
// when the token is missing or unknown
func RequireAuth(profileRepo interfaces.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token", "code": "unauthorized"})
			return
		}

		profile, err := profileRepo.GetByAPIToken(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Error("Failed to resolve API token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
			return
		}
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token", "code": "unauthorized"})
			return
		}

		c.Set(profileContextKey, profile)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// currentProfile returns the authenticated profile set by RequireAuth
func currentProfile(c *gin.Context) *entities.Profile {
	value, exists := c.Get(profileContextKey)
	if !exists {
		return nil
	}
	profile, _ := value.(*entities.Profile)
	return profile
}
