package http

import (
	"errors"
	"net/http"

	"backoffice-review/internal/domain/application"
	"backoffice-review/internal/domain/profile"
	"backoffice-review/internal/usecase/review"
	"backoffice-review/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Map domain/usecase errors → HTTP codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrNotFound), errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrAlreadyFinalized), errors.Is(err, application.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, application.ErrInvalidStatus),
		errors.Is(err, application.ErrInvalidAction),
		errors.Is(err, application.ErrInvalidKind),
		errors.Is(err, review.ErrReasonRequired):
		return http.StatusBadRequest
	case errors.Is(err, submission.ErrEmptyPatch), errors.Is(err, review.ErrEmptyProgress):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		c.Logger().Errorj(log.JSON{
			"msg":    "request failed",
			"method": c.Request().Method,
			"path":   c.Path(),
			"error":  err.Error(),
		})
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

func kindParam(c echo.Context) (application.Kind, error) {
	return application.ParseKind(c.Param("kind"))
}
