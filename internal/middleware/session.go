package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

const SessionKey = "session"

// SessionChecker resolves the stored session.
type SessionChecker interface {
	Check(ctx context.Context) (*models.Session, error)
}

// RequireSession redirects to loginURL when no valid session is stored.
// Nothing after it runs in that case, so no dashboard request is issued.
func RequireSession(guard SessionChecker, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := guard.Check(c.Request.Context())
		if err != nil {
			if errors.Is(err, errorvalues.ErrAuthMissing) {
				c.Redirect(http.StatusFound, loginURL)
				c.Abort()
				return
			}
			slog.Error("session check failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "server_error",
				Message: "Failed to read session",
			})
			return
		}
		c.Set(SessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(c *gin.Context) *models.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}
