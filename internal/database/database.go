package database

import (
	"github.com/mdouchement/impulsestop/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		UserInteraction
		SessionInteraction
		ItemInteraction
		PriorityInteraction
		TombstoneInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
	}

	// An SessionInteraction defines all the methods used to interact with a session record.
	SessionInteraction interface {
		// FindSessionByAccessToken returns the session for the given access token.
		FindSessionByAccessToken(token string) (*model.Session, error)
		// FindSessionsByUserID returns all the sessions for the given user id.
		FindSessionsByUserID(userID string) ([]*model.Session, error)
		// DeleteSessionsByUserID deletes all the sessions of the given user.
		DeleteSessionsByUserID(userID string) error
	}

	// An ItemInteraction defines all the methods used to interact with item record(s).
	ItemInteraction interface {
		// FindItem returns the item for the given id (UUID).
		FindItem(id string) (*model.Item, error)
		// FindItemByUserID returns the item for the given id and user id (UUID).
		FindItemByUserID(id, userID string) (*model.Item, error)
		// FindItemsByUserID returns all the items of the given user ordered by
		// the given indexed field. The order between equal keys is the
		// underlying index order.
		FindItemsByUserID(userID, orderBy string, reverse bool) ([]*model.Item, error)
		// DeleteItem deletes the item matching the given parameters.
		DeleteItem(id, userID string) error
		// DeleteItemsByUserID deletes all the items of the given user.
		DeleteItemsByUserID(userID string) error
	}

	// A PriorityInteraction defines all the methods used to interact with the priority catalog.
	// The catalog is written once at seed time and read-only afterwards.
	PriorityInteraction interface {
		// FindEnabledPriorities returns the catalog entries that are not disabled,
		// ordered by id.
		FindEnabledPriorities() ([]*model.Priority, error)
		// SavePriority inserts or updates a catalog entry. Seeding only.
		SavePriority(priority *model.Priority) error
	}

	// A TombstoneInteraction defines all the methods used to interact with cancellation audit records.
	TombstoneInteraction interface {
		// FindTombstoneByUserID returns the audit record of the given user.
		FindTombstoneByUserID(userID string) (*model.Tombstone, error)
	}
)
