package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/upload"
)

type ImageUploader interface {
	Upload(ctx context.Context, req upload.Request) (upload.Result, error)
}

// Upload stores a tour image sent as a data URL and returns its public URL.
func Upload(u ImageUploader) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req upload.Request
		if err := c.Bind(&req); err != nil {
			return invalidBody(c)
		}
		ctx, cancel := withTimeout(c)
		defer cancel()

		res, err := u.Upload(ctx, req)
		switch {
		case errors.Is(err, upload.ErrInvalidDataURL), errors.Is(err, upload.ErrNotImage):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "field": "file"})
		case errors.Is(err, upload.ErrTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": err.Error(), "field": "file"})
		case errors.Is(err, upload.ErrNotConfigured):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image uploads are not configured"})
		case err != nil:
			c.Logger().Errorf("upload: %v", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "upload failed"})
		}
		return c.JSON(http.StatusOK, res)
	}
}
