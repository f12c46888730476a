package client

import (
	"sync"
	"testing"
	"time"

	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records calls. Methods not overridden panic through the
// embedded nil interface, which is wanted: it flags unexpected requests.
type fakeClient struct {
	libis.Client
	mu    sync.Mutex
	calls []string

	priorities    []libis.Priority
	prioritiesErr error

	subscribeErr error
	snapshot     libis.SnapshotFunc

	deleteErr error
}

func (c *fakeClient) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeClient) recorded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) Priorities() ([]libis.Priority, error) {
	c.record("priorities")
	return c.priorities, c.prioritiesErr
}

func (c *fakeClient) Subscribe(sort libis.SortSpec, fn libis.SnapshotFunc) (libis.Unsubscribe, error) {
	c.record("subscribe " + sort.Key())
	if c.subscribeErr != nil {
		return nil, c.subscribeErr
	}

	c.snapshot = fn
	return func() { c.record("unsubscribe") }, nil
}

func (c *fakeClient) DeleteItem(id string) error {
	c.record("delete " + id)
	return c.deleteErr
}

type alertRecorder struct {
	mu     sync.Mutex
	alerts []string
}

func (a *alertRecorder) Alert(title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, title)
}

func (a *alertRecorder) recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.alerts...)
}

func member() *Session {
	return &Session{User: libis.User{ID: "user42", Email: "george.abitbol@nowhere.lan"}}
}

func trial() *Session {
	return &Session{User: libis.User{ID: "anon42", Anonymous: true}}
}

func catalog() []libis.Priority {
	return []libis.Priority{
		{ID: 1, Name: "高"},
		{ID: 2, Name: "中"},
		{ID: 3, Name: "低"},
	}
}

func TestListViewMount(t *testing.T) {
	api := &fakeClient{priorities: catalog()}
	alerts := &alertRecorder{}
	registry := NewRegistry()

	view := NewListView(api, member(), registry, alerts, nil)
	assert.True(t, view.Loading())

	view.Mount()

	assert.Equal(t, []string{"priorities", "subscribe updatedAt:desc"}, api.recorded())
	assert.False(t, view.Loading())
	assert.Empty(t, view.Items())
	assert.NotNil(t, registry.Get())

	now := time.Now()
	api.snapshot([]libis.Item{
		{ID: "a", BodyText: "a new phone", Priority: 1, UpdatedAt: &now},
		{ID: "b", BodyText: "limited sneakers", Priority: 9},
		{ID: "", BodyText: "dropped"},
		{ID: "c", BodyText: ""},
	}, nil)

	items := view.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "高", items[0].Priority)
	assert.Equal(t, 1, items[0].PriorityCode)
	assert.Equal(t, "", items[1].Priority) // unknown codes render blank
	assert.Empty(t, alerts.recorded())
}

func TestListViewMountCatalogFailure(t *testing.T) {
	api := &fakeClient{prioritiesErr: errors.New("boom")}
	alerts := &alertRecorder{}

	view := NewListView(api, member(), NewRegistry(), alerts, nil)
	view.Mount()

	// The catalog failure is alerted but the list still opens.
	assert.Equal(t, []string{"priorities", "subscribe updatedAt:desc"}, api.recorded())
	assert.Equal(t, []string{"Could not fetch priorities"}, alerts.recorded())

	api.snapshot([]libis.Item{{ID: "a", BodyText: "a new phone", Priority: 1}}, nil)
	items := view.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].Priority)
}

func TestListViewMountWithoutSession(t *testing.T) {
	api := &fakeClient{}

	view := NewListView(api, &Session{}, NewRegistry(), &alertRecorder{}, nil)
	view.Mount()

	assert.Empty(t, api.recorded())
	assert.True(t, view.Loading())
}

func TestListViewSetSort(t *testing.T) {
	api := &fakeClient{priorities: catalog()}
	registry := NewRegistry()

	view := NewListView(api, member(), registry, &alertRecorder{}, nil)
	view.Mount()
	api.snapshot([]libis.Item{{ID: "a", BodyText: "a new phone", Priority: 1}}, nil)

	view.SetSort(libis.SortSpec{Type: libis.SortTypePriority, Order: libis.SortOrderAsc})

	// The old subscription is torn down before the new one opens, and
	// the list resets to the empty state until the next snapshot.
	assert.Equal(t, []string{
		"priorities",
		"subscribe updatedAt:desc",
		"unsubscribe",
		"subscribe priority:asc",
	}, api.recorded())
	assert.Empty(t, view.Items())
	assert.NotNil(t, registry.Get())

	// Same spec again is a no-op.
	view.SetSort(libis.SortSpec{Type: libis.SortTypePriority, Order: libis.SortOrderAsc})
	assert.Len(t, api.recorded(), 4)
}

func TestListViewSnapshotFailure(t *testing.T) {
	api := &fakeClient{priorities: catalog()}
	alerts := &alertRecorder{}

	view := NewListView(api, member(), NewRegistry(), alerts, nil)
	view.Mount()
	api.snapshot([]libis.Item{{ID: "a", BodyText: "a new phone", Priority: 1}}, nil)
	require.Len(t, view.Items(), 1)

	// A failed emission clears the list but keeps the subscription open.
	api.snapshot(nil, errors.New("boom"))
	assert.Empty(t, view.Items())
	assert.False(t, view.Loading())
	assert.Equal(t, []string{"An error occurred"}, alerts.recorded())

	api.snapshot([]libis.Item{{ID: "a", BodyText: "a new phone", Priority: 1}}, nil)
	assert.Len(t, view.Items(), 1)
}

func TestListViewDelete(t *testing.T) {
	api := &fakeClient{priorities: catalog()}
	alerts := &alertRecorder{}

	view := NewListView(api, member(), NewRegistry(), alerts, nil)
	view.Mount()

	view.Delete("a")
	assert.Contains(t, api.recorded(), "delete a")
	assert.Equal(t, []string{"The item has been deleted"}, alerts.recorded())
}

func TestListViewTrialMode(t *testing.T) {
	api := &fakeClient{priorities: catalog()}
	alerts := &alertRecorder{}

	view := NewListView(api, trial(), NewRegistry(), alerts, nil)
	view.Mount()

	// Reads work, writes are blocked before any request is issued.
	assert.Equal(t, []string{"priorities", "subscribe updatedAt:desc"}, api.recorded())

	assert.False(t, view.CanAdd())
	view.Delete("a")

	assert.NotContains(t, api.recorded(), "delete a")
	assert.Len(t, alerts.recorded(), 2)
}

func TestListViewUnmount(t *testing.T) {
	api := &fakeClient{priorities: catalog()}

	view := NewListView(api, member(), NewRegistry(), &alertRecorder{}, nil)
	view.Mount()
	view.Unmount()

	assert.Contains(t, api.recorded(), "unsubscribe")
}

func TestRegistryLastWriteWins(t *testing.T) {
	registry := NewRegistry()
	assert.Nil(t, registry.Get())

	var first, second int
	registry.Set(func() { first++ })
	registry.Set(func() { second++ })

	registry.Get()()
	assert.Zero(t, first) // the replaced handle is never invoked by the registry
	assert.Equal(t, 1, second)
}
