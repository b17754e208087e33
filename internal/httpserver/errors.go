package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/userauth/internal/apperr"
	"github.com/Skotchmaster/userauth/internal/tokens"
)

const (
	msgDuplicateEmail     = "User with this email already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgInvalidBody        = "Invalid request body"
	msgInternal           = "Internal server error"
)

// httpError maps a service error onto the response the client sees. Anything unrecognized
// becomes a generic 500 and the cause is kept only as the internal error for logging.
func httpError(err error) *echo.HTTPError {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, apperr.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	case errors.Is(err, apperr.ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusConflict, msgDuplicateEmail)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, tokens.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal).
			SetInternal(fmt.Errorf("%w: %w", apperr.ErrInternal, err))
	}
}
