package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// Pages serves the built single page app.  Every page route gets
// index.html; routing happens in the browser.
type Pages struct {
	Dir string
}

func (p Pages) index() string { return filepath.Join(p.Dir, "index.html") }

// Index serves the app shell.
func (p Pages) Index(c echo.Context) error {
	return c.File(p.index())
}

// NotFound answers unknown routes: JSON under /api, otherwise the app shell
// with a 404 status so the browser renders its not-found page.
func (p Pages) NotFound(c echo.Context) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	html, err := os.ReadFile(p.index())
	if err != nil {
		return c.String(http.StatusNotFound, "not found")
	}
	return c.HTMLBlob(http.StatusNotFound, html)
}
