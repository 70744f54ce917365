package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError writes the HTTP form of err.
func respondError(c *gin.Context, err error) {
	var apiErr *services.APIError
	switch {
	case errors.Is(err, errorvalues.ErrAuthMissing):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "auth_missing",
			Message: "Please log in again",
		})
	case errors.Is(err, errorvalues.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, errorvalues.ErrSuperseded):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "superseded",
			Message: "A newer request replaced this one",
		})
	case errors.Is(err, errorvalues.ErrNoPaymentLink):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "no_payment_link",
			Message: "Failed to create payment link",
		})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < http.StatusBadRequest || errors.Is(err, errorvalues.ErrMalformedResponse) {
			status = http.StatusBadGateway
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "api_error",
			Message: apiErr.Message,
		})
	default:
		slog.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: err.Error(),
		})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
