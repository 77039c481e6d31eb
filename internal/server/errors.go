package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/betabot/internal/geometry"
	"github.com/jonathan/betabot/internal/palette"
	"github.com/jonathan/betabot/internal/synthesis"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		loadErr       *geometry.LoadError
		bankErr       *synthesis.BankError
		genErr        *synthesis.GenerationError
		positionErr   *palette.PositionError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &genErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &loadErr), errors.As(err, &bankErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &positionErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
