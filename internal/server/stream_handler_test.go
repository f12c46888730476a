package server_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mdouchement/impulsestop/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestItemsStream(t *testing.T) {
	engine, ioc, _, cleanup := setup()
	defer cleanup()

	ts := httptest.NewServer(engine)
	defer ts.Close()

	user := createUser(ioc)
	first := createItem(ioc, user.ID, "a new phone", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/items/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+server.CreateJWT(ioc, user))

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(res.Body)

	// Connecting pushes the current result set right away.
	snapshot := readSnapshot(t, scanner)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, first.ID, snapshot.Items[0].ID)

	// A write on the scope pushes a fresh full snapshot.
	second := createItem(ioc, user.ID, "limited sneakers", 2)
	ioc.Broker.Notify(user.ID)

	snapshot = readSnapshot(t, scanner)
	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, second.ID, snapshot.Items[0].ID)
	assert.Equal(t, first.ID, snapshot.Items[1].ID)
}

func readSnapshot(t *testing.T, scanner *bufio.Scanner) itemsPayload {
	t.Helper()

	var v itemsPayload
	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.HasPrefix(line, []byte("data: ")) {
			continue
		}

		require.NoError(t, json.Unmarshal(bytes.TrimPrefix(line, []byte("data: ")), &v))
		return v
	}

	t.Fatal("no event received")
	return v
}
