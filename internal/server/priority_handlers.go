package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/impulsestop/internal/database"
)

// priority contains the priority catalog handlers.
type priority struct {
	db database.Client
}

// Index returns the enabled entries of the priority catalog.
// The catalog is read-only, disabled entries are never rendered.
func (h *priority) Index(c echo.Context) error {
	priorities, err := h.db.FindEnabledPriorities()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"priorities": priorities})
}
