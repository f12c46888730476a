package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.Init(&model.User{}); err != nil {
		return errors.Wrap(err, "could not init user index")
	}

	if err := db.Init(&model.Item{}); err != nil {
		return errors.Wrap(err, "could not init item index")
	}

	if err := db.Init(&model.Priority{}); err != nil {
		return errors.Wrap(err, "could not init priority index")
	}

	if err := db.Init(&model.Session{}); err != nil {
		return errors.Wrap(err, "could not init session index")
	}

	err = db.Init(&model.Tombstone{})
	return errors.Wrap(err, "could not init tombstone index")
}

// StormSeed populates the priority catalog and the read-only sample
// scope browsed by trial sessions. Safe to run again, existing records
// are overwritten in place.
func StormSeed(database string) error {
	client, err := StormOpen(database)
	if err != nil {
		return err
	}
	defer client.Close()

	priorities := []*model.Priority{
		{ID: 1, Name: "高"},
		{ID: 2, Name: "中"},
		{ID: 3, Name: "低"},
		{ID: 4, Name: "保留", Disabled: true}, // kept for records created before the catalog shrank
	}
	for _, priority := range priorities {
		if err := client.SavePriority(priority); err != nil {
			return err
		}
	}

	sample := &model.User{
		Email:     "sample9999@impulsestop.lan",
		Anonymous: true,
	}
	sample.ID = model.SampleUserID
	if err := client.Save(sample); err != nil {
		return errors.Wrap(err, "could not seed sample user")
	}

	items, err := client.FindItemsByUserID(model.SampleUserID, "UpdatedAt", false)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return nil
	}

	demo := []string{
		"新しいヘッドホン",
		"限定スニーカー",
		"コーヒーメーカー",
	}
	for i, body := range demo {
		item := &model.Item{BodyText: body, Priority: i%3 + 1}
		item.UserID = model.SampleUserID
		if err := client.Save(item); err != nil {
			return errors.Wrap(err, "could not seed sample item")
		}
	}

	return nil
}

// StormReIndex reindex Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.ReIndex(&model.User{}); err != nil {
		return errors.Wrap(err, "could not ReIndex users")
	}

	if err := db.ReIndex(&model.Item{}); err != nil {
		return errors.Wrap(err, "could not ReIndex items")
	}

	err = db.ReIndex(&model.Priority{})
	return errors.Wrap(err, "could not ReIndex priorities")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// FindSessionByAccessToken returns the session for the given access token.
func (c *strm) FindSessionByAccessToken(token string) (*model.Session, error) {
	var session model.Session
	if err := c.db.One("AccessToken", token, &session); err != nil {
		return nil, errors.Wrap(err, "find session by access token")
	}
	return &session, nil
}

// FindSessionsByUserID returns all the sessions for the given user id.
func (c *strm) FindSessionsByUserID(userID string) ([]*model.Session, error) {
	sessions := make([]*model.Session, 0)
	err := c.db.Select(q.Eq("UserID", userID)).OrderBy("CreatedAt").Find(&sessions)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find sessions by user id")
	}
	return sessions, nil
}

// DeleteSessionsByUserID deletes all the sessions of the given user.
func (c *strm) DeleteSessionsByUserID(userID string) error {
	err := c.db.Select(q.Eq("UserID", userID)).Delete(&model.Session{})
	if err != nil && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not delete sessions by user id")
	}
	return nil
}

// FindItem returns the item for the given id (UUID).
func (c *strm) FindItem(id string) (*model.Item, error) {
	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

// FindItemByUserID returns the item for the given id and user id (UUID).
func (c *strm) FindItemByUserID(id, userID string) (*model.Item, error) {
	var item model.Item
	err := c.db.Select(q.Eq("ID", id), q.Eq("UserID", userID)).First(&item)
	return &item, errors.Wrap(err, "could not find item by user id")
}

// FindItemsByUserID returns all the items of the given user ordered by the given indexed field.
func (c *strm) FindItemsByUserID(userID, orderBy string, reverse bool) ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	stmt := c.db.Select(q.Eq("UserID", userID)).OrderBy(orderBy)
	if reverse {
		stmt = stmt.Reverse()
	}
	err := stmt.Find(&items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}
	return items, nil
}

// DeleteItem deletes the item matching the given parameters.
func (c *strm) DeleteItem(id, userID string) error {
	err := c.db.Select(q.Eq("ID", id), q.Eq("UserID", userID)).Delete(&model.Item{})
	return errors.Wrap(err, "could not delete item")
}

// DeleteItemsByUserID deletes all the items of the given user.
func (c *strm) DeleteItemsByUserID(userID string) error {
	err := c.db.Select(q.Eq("UserID", userID)).Delete(&model.Item{})
	if err != nil && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not delete items by user id")
	}
	return nil
}

// FindEnabledPriorities returns the catalog entries that are not disabled, ordered by id.
func (c *strm) FindEnabledPriorities() ([]*model.Priority, error) {
	priorities := make([]*model.Priority, 0)
	err := c.db.Select(q.Eq("Disabled", false)).OrderBy("ID").Find(&priorities)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find priorities")
	}
	return priorities, nil
}

// SavePriority inserts or updates a catalog entry.
func (c *strm) SavePriority(priority *model.Priority) error {
	return errors.Wrap(c.db.Save(priority), "could not save priority")
}

// FindTombstoneByUserID returns the audit record of the given user.
func (c *strm) FindTombstoneByUserID(userID string) (*model.Tombstone, error) {
	var tombstone model.Tombstone
	if err := c.db.One("UserID", userID, &tombstone); err != nil {
		return nil, errors.Wrap(err, "find tombstone by user id")
	}
	return &tombstone, nil
}
