package libis

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

type (
	// A SnapshotFunc consumes live query emissions. Every call carries the
	// complete current result set, not an increment. A non-nil err means
	// the payload could not be decoded, the subscription stays open.
	SnapshotFunc func(items []Item, err error)

	// An Unsubscribe tears a live query down. It is safe to call more
	// than once, extra calls are no-ops.
	Unsubscribe func()
)

// Subscribe opens the live query stream. The handler is invoked with the
// initial snapshot and then after every change of the scope, in the order
// the server emits them, until the returned teardown is called or the
// stream fails.
func (c *client) Subscribe(sort SortSpec, fn SnapshotFunc) (Unsubscribe, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, "/items/stream")

	query := url.Values{}
	query.Set("sort", sort.Key())
	u.RawQuery = query.Encode()

	//
	// Build request
	ctx, cancel := context.WithCancel(context.Background())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Header.Add("Accept", "text/event-stream")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.bearer))

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "could not perform request")
	}

	if res.StatusCode >= 400 {
		defer res.Body.Close()
		cancel()
		return nil, parseError(res.Body, res.StatusCode)
	}

	go func() {
		defer res.Body.Close()

		scanner := bufio.NewScanner(res.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), 16<<20)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			fn(parseSnapshot(strings.TrimPrefix(line, "data: ")))
		}
		// The reader only stops on teardown or on a broken connection.
		// Both end the subscription, nothing is retried.
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}

func parseSnapshot(payload string) ([]Item, error) {
	v, err := fastjson.Parse(payload)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse snapshot")
	}

	elements := v.GetArray("items")
	items := make([]Item, 0, len(elements))
	for _, e := range elements {
		item := Item{
			ID:       string(e.GetStringBytes("uuid")),
			UserID:   string(e.GetStringBytes("user_uuid")),
			BodyText: string(e.GetStringBytes("body_text")),
			Priority: e.GetInt("priority"),
		}

		if raw := e.GetStringBytes("updated_at"); raw != nil {
			t, err := time.Parse(time.RFC3339Nano, string(raw))
			if err != nil {
				return nil, errors.Wrap(err, "could not parse snapshot timestamp")
			}
			item.UpdatedAt = &t
		}

		items = append(items, item)
	}

	return items, nil
}
