package http

import (
	"net/http"

	"StockTrack/pkg/errs"

	"github.com/labstack/echo/v4"
)

const internalMessage = "Internal server error"

// DataResponse writes data as JSON with the given status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// CreatedResponse writes created response.
func CreatedResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusCreated, data)
}

// ErrorResponse writes {"error": message}.
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return DataResponse(c, statusCode, ErrorBody{Error: message})
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message)
}

// UnauthorizedResponse writes unauthorized error.
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, internalMessage)
}

// AppErrorResponse writes a classified error. Unclassified and internal errors
// never expose their cause.
func AppErrorResponse(c echo.Context, err error) error {
	e, ok := errs.As(err)
	if !ok || e.Kind == errs.Internal {
		return InternalServerErrorResponse(c)
	}
	return DataResponse(c, StatusFor(e.Kind), ErrorBody{Error: e.Message, Details: e.Details})
}
