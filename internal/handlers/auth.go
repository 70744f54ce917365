package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"journal-dashboard/config"
	"journal-dashboard/internal/dashboard"
	"journal-dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

// SessionManager stores and clears the credential of the signed-in user.
type SessionManager interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, name, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
}

type AuthHandler struct {
	cfg     *config.Config
	session SessionManager
	host    *dashboard.Host
}

func NewAuthHandler(cfg *config.Config, session SessionManager, host *dashboard.Host) *AuthHandler {
	return &AuthHandler{
		cfg:     cfg,
		session: session,
		host:    host,
	}
}

// SessionResponse is returned after a successful login or registration.
type SessionResponse struct {
	Message  string            `json:"message"`
	User     models.UserRecord `json:"user"`
	Redirect string            `json:"redirect"`
}

// Signup registers through the journal API and stores the credential
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.HTTPTimeout)
	defer cancel()

	session, err := h.session.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.host.Reset()

	c.JSON(http.StatusCreated, SessionResponse{
		Message:  "Account created",
		User:     session.User,
		Redirect: "/dashboard",
	})
}

// Login authenticates through the journal API and stores the credential
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.HTTPTimeout)
	defer cancel()

	session, err := h.session.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.host.Reset()

	c.JSON(http.StatusOK, SessionResponse{
		Message:  "Logged in",
		User:     session.User,
		Redirect: "/dashboard",
	})
}

// Logout clears the stored credential and sends the browser to the login page
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.session.Logout(ctx); err != nil {
		slog.Error("logout failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to clear session",
		})
		return
	}
	h.host.Reset()
	c.Redirect(http.StatusFound, h.cfg.LoginURL)
}
