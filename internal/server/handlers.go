// Package server provides the HTTP serving surface for the completion
// engine.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"codefill/internal/core"
)

// Handler holds the HTTP handlers
type Handler struct {
	service *Service
}

// NewHandler creates a new handler with the given service
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Autocomplete handles POST /v1/autocomplete
func (h *Handler) Autocomplete(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}
	if req.LanguageID == "" {
		return handleError(c, core.NewInvalidRequestError("language_id is required", nil))
	}

	ctx, release := h.service.Acquire(req.SessionID, c.Request().Context())
	defer release()

	result, err := h.service.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Superseded by a newer request in the same session.
			return c.NoContent(http.StatusNoContent)
		}
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func handleError(c echo.Context, err error) error {
	var cerr *core.CompletionError
	if errors.As(err, &cerr) {
		return c.JSON(cerr.HTTPStatusCode(), cerr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
