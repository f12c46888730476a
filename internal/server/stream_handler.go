package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/impulsestop/internal/ibserror"
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

///// Stream
////
//

// Stream is the live query endpoint. It pushes the full ordered result
// set of the current scope as a server-sent event on connect and then
// after every change, until the client tears the connection down.
// Snapshots, not deltas: each event replaces the previous one entirely.
func (h *item) Stream(c echo.Context) error {
	spec, err := sortspec(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ibserror.New(err.Error()))
	}

	scope := scope(currentUser(c))

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	notify, cancel := h.broker.Subscribe(scope)
	defer cancel()

	// Initial snapshot.
	if err := h.push(c, scope, spec); err != nil {
		return err
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-notify:
			if err := h.push(c, scope, spec); err != nil {
				return err
			}
		}
	}
}

func (h *item) push(c echo.Context, scope string, spec libis.SortSpec) error {
	items, err := h.db.FindItemsByUserID(scope, stormSortFields[spec.Type], spec.Order == libis.SortOrderDesc)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(echo.Map{"items": items})
	if err != nil {
		return errors.Wrap(err, "could not serialize snapshot")
	}

	if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", payload); err != nil {
		return errors.Wrap(err, "could not write snapshot")
	}
	c.Response().Flush()
	return nil
}
