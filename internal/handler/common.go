// Package handler exposes the HTTP handlers of the public site, the admin
// API and the auth endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/forms"
)

// requestTimeout bounds every database or remote call made by a handler.
const requestTimeout = 5 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses the :id parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

func confirmed(c echo.Context) bool {
	ok, _ := strconv.ParseBool(c.QueryParam("confirm"))
	return ok
}

func serverError(c echo.Context, what string, err error) error {
	c.Logger().Errorf("%s: %v", what, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": what})
}

// flowError maps a forms.FlowError to a response.
func flowError(c echo.Context, err error) error {
	fe, ok := forms.AsFlowError(err)
	if !ok {
		return serverError(c, "submission failed", err)
	}
	switch fe.Kind {
	case forms.KindInvalid:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fe.Err.Error(), "field": fe.Field})
	case forms.KindVerification:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "verification_required"})
	}
	c.Logger().Errorf("form %s: %v", fe.Stage, fe.Err)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "submission failed, please try again"})
}
