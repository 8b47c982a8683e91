package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

// SuccessEnvelope is the success payload shape every endpoint returns. The
// browser-extension caller branches on `success`.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// SuccessResponse returns a 200 OK with data wrapped in the success envelope
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Data: data})
}

// BadRequest returns a 400 Bad Request error
func BadRequest(message string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, message)
}
