package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/ibserror"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

// item contains all item handlers.
type item struct {
	db     database.Client
	broker *database.Broker
}

// stormSortFields maps the wire sort types on the indexed model fields.
var stormSortFields = map[libis.SortType]string{
	libis.SortTypeUpdatedAt: "UpdatedAt",
	libis.SortTypePriority:  "Priority",
}

// itemParams is the payload of a create or a full overwrite.
type itemParams struct {
	BodyText string `json:"body_text"`
	Priority int    `json:"priority"`
}

///// Index
////
//

// Index returns all the items of the current scope, ordered by the sort
// query param (defaults to newest first).
func (h *item) Index(c echo.Context) error {
	spec, err := sortspec(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ibserror.New(err.Error()))
	}

	items, err := h.db.FindItemsByUserID(scope(currentUser(c)), stormSortFields[spec.Type], spec.Order == libis.SortOrderDesc)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

///// Show
////
//

// Show returns one item of the current scope.
func (h *item) Show(c echo.Context) error {
	item, err := h.db.FindItemByUserID(c.Param("id"), scope(currentUser(c)))
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, ibserror.New("No such item."))
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"item": item})
}

///// Create
////
//

// Create inserts a new item, the server assigns the id.
func (h *item) Create(c echo.Context) error {
	user := currentUser(c)
	if user.Anonymous {
		return ibserror.NoPermission()
	}

	var params itemParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ibserror.New("Could not get item params."))
	}

	if params.BodyText == "" {
		return c.JSON(http.StatusBadRequest,
			ibserror.NewWithTagCode(http.StatusBadRequest, ibserror.TagValidation, "Body text can't be empty."))
	}

	item := &model.Item{
		UserID:   user.ID,
		BodyText: params.BodyText,
		Priority: params.Priority,
	}
	if err := h.db.Save(item); err != nil {
		return errors.Wrap(err, "could not persist item")
	}

	h.broker.Notify(user.ID)
	return c.JSON(http.StatusCreated, echo.Map{"item": item})
}

///// Update
////
//

// Update overwrites the item contents wholesale.
func (h *item) Update(c echo.Context) error {
	user := currentUser(c)
	if user.Anonymous {
		return ibserror.NoPermission()
	}

	var params itemParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ibserror.New("Could not get item params."))
	}

	if params.BodyText == "" {
		return c.JSON(http.StatusBadRequest,
			ibserror.NewWithTagCode(http.StatusBadRequest, ibserror.TagValidation, "Body text can't be empty."))
	}

	item, err := h.db.FindItemByUserID(c.Param("id"), user.ID)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, ibserror.New("No such item."))
		}
		return err
	}

	item.BodyText = params.BodyText
	item.Priority = params.Priority
	if err := h.db.Save(item); err != nil {
		return errors.Wrap(err, "could not persist item")
	}

	h.broker.Notify(user.ID)
	return c.JSON(http.StatusOK, echo.Map{"item": item})
}

///// Delete
////
//

// Delete removes one item of the current user.
func (h *item) Delete(c echo.Context) error {
	user := currentUser(c)
	if user.Anonymous {
		return ibserror.NoPermission()
	}

	if _, err := h.db.FindItemByUserID(c.Param("id"), user.ID); err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, ibserror.New("No such item."))
		}
		return err
	}

	if err := h.db.DeleteItem(c.Param("id"), user.ID); err != nil {
		return err
	}

	h.broker.Notify(user.ID)
	return c.NoContent(http.StatusNoContent)
}

func sortspec(c echo.Context) (libis.SortSpec, error) {
	key := c.QueryParam("sort")
	if key == "" {
		return libis.DefaultSort(), nil
	}
	return libis.ParseSortKey(key)
}
