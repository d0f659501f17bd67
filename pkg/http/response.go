package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError is one rejected request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"placeId"`
	Message string                 `json:"message,omitempty" example:"placeId is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

func envelope(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusOK, data)
}

// BadRequestResponse wraps the output of ReadAndValidateRequest.
func BadRequestResponse(c echo.Context, errs interface{}) error {
	return envelope(c, http.StatusBadRequest, errs)
}

// AppErrorResponse writes err with its own status. Anything that is not an
// *AppError is reported as a bare 500 so internals never leak.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("Something went wrong")
	}
	return envelope(c, appErr.Status, []*AppError{appErr})
}
