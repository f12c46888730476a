package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/ibserror"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/pkg/errors"
)

// tombstone contains the cancellation audit handlers.
// The audit record is written by the client before it deletes the
// account and survives the account itself.
type tombstone struct {
	db database.Client
}

///// Create
////
//

// Create writes the audit record for the current user.
func (h *tombstone) Create(c echo.Context) error {
	user := currentUser(c)
	if user.Anonymous {
		return ibserror.NoPermission()
	}

	record, err := h.db.FindTombstoneByUserID(user.ID)
	if err != nil && !h.db.IsNotFound(err) {
		return errors.Wrap(err, "could not get tombstone")
	}
	if record == nil {
		record = &model.Tombstone{UserID: user.ID}
	}
	record.Email = user.Email

	if err := h.db.Save(record); err != nil {
		return errors.Wrap(err, "could not persist tombstone")
	}

	return c.JSON(http.StatusOK, echo.Map{"tombstone": record})
}

///// Show
////
//

// Show returns the audit record of the current user, used as the
// confirmation read of the cancellation flow.
func (h *tombstone) Show(c echo.Context) error {
	record, err := h.db.FindTombstoneByUserID(currentUser(c).ID)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, ibserror.New("No such tombstone."))
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"tombstone": record})
}
