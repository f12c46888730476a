package libis_test

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/mailer"
	"github.com/mdouchement/impulsestop/internal/server"
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshot carries one live query emission out of its goroutine.
type snapshot struct {
	items []libis.Item
	err   error
}

func setup(t *testing.T) (libis.Client, func()) {
	tmpfile, err := os.CreateTemp("", "impulsestop.*.db")
	require.NoError(t, err)
	filename := tmpfile.Name()
	tmpfile.Close()

	db, err := database.StormOpen(filename)
	require.NoError(t, err)

	engine := server.EchoEngine(server.IOC{
		Version:                    "test",
		Database:                   db,
		Broker:                     database.NewBroker(),
		Mailer:                     mailer.NewLogger(logrus.New()),
		SigningKey:                 []byte("secret"),
		RefreshTokenExpirationTime: 365 * 24 * time.Hour,
	})
	ts := httptest.NewServer(engine)

	client, err := libis.NewDefaultClient(ts.URL)
	require.NoError(t, err)

	return client, func() {
		ts.Close()
		db.Close()
		os.RemoveAll(filename)
	}
}

func TestClientAuthentication(t *testing.T) {
	client, cleanup := setup(t)
	defer cleanup()

	credentials, err := client.Register("george.abitbol@nowhere.lan", "password42")
	require.NoError(t, err)
	assert.NotEmpty(t, credentials.User.ID)
	assert.Equal(t, "george.abitbol@nowhere.lan", credentials.User.Email)
	assert.Equal(t, credentials.Token, client.BearerToken())

	session, err := client.RefreshSession(
		credentials.Session.AccessToken, credentials.Session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, credentials.Session.AccessToken, session.AccessToken)

	require.NoError(t, client.Logout())
}

func TestClientItems(t *testing.T) {
	client, cleanup := setup(t)
	defer cleanup()

	_, err := client.Register("george.abitbol@nowhere.lan", "password42")
	require.NoError(t, err)

	item, err := client.CreateItem("a mechanical keyboard", 2)
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)
	assert.Equal(t, "a mechanical keyboard", item.BodyText)
	assert.Equal(t, 2, item.Priority)

	item, err = client.OverwriteItem(item.ID, "a mechanical keyboard", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Priority)

	items, err := client.Items(libis.DefaultSort())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)

	require.NoError(t, client.DeleteItem(item.ID))

	_, err = client.Item(item.ID)
	assert.Error(t, err)
}

func TestClientSubscribe(t *testing.T) {
	client, cleanup := setup(t)
	defer cleanup()

	_, err := client.Register("george.abitbol@nowhere.lan", "password42")
	require.NoError(t, err)

	snapshots := make(chan snapshot, 4)
	unsubscribe, err := client.Subscribe(libis.DefaultSort(), func(items []libis.Item, err error) {
		snapshots <- snapshot{items: items, err: err}
	})
	require.NoError(t, err)

	first := nextSnapshot(t, snapshots)
	assert.Empty(t, first.items)

	// Every write yields a fresh full result set on the stream.
	item, err := client.CreateItem("a mechanical keyboard", 1)
	require.NoError(t, err)

	second := nextSnapshot(t, snapshots)
	require.Len(t, second.items, 1)
	assert.Equal(t, item.ID, second.items[0].ID)
	assert.Equal(t, "a mechanical keyboard", second.items[0].BodyText)

	// The teardown handle is idempotent, extra calls are no-ops.
	unsubscribe()
	unsubscribe()
}

func TestClientSubscribeUnauthorized(t *testing.T) {
	client, cleanup := setup(t)
	defer cleanup()

	_, err := client.Subscribe(libis.DefaultSort(), func([]libis.Item, error) {})
	require.Error(t, err)

	e, ok := err.(*libis.Error)
	require.True(t, ok)
	assert.Equal(t, 401, e.StatusCode)
}

func nextSnapshot(t *testing.T, snapshots chan snapshot) snapshot {
	t.Helper()

	select {
	case s := <-snapshots:
		require.NoError(t, s.err)
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
	}
	return snapshot{}
}
