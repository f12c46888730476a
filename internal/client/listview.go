package client

import (
	"sync"
	"time"

	"github.com/mdouchement/impulsestop/pkg/libis"
)

// A DisplayItem is one rendered row of the list: the raw priority code is
// already resolved into its catalog name.
type DisplayItem struct {
	ID           string
	BodyText     string
	UpdatedAt    *time.Time
	Priority     string
	PriorityCode int
}

// A ListView keeps the user's items in sync with the server in the order
// the user selects. items == nil is the distinguished loading state, an
// empty slice is the empty list.
type ListView struct {
	client   libis.Client
	session  *Session
	registry *Registry
	alert    Alerter

	mu          sync.Mutex
	items       []DisplayItem
	catalog     []libis.Priority
	sort        libis.SortSpec
	unsubscribe libis.Unsubscribe

	// onChange is invoked after every state change, off the caller's
	// goroutine for snapshot deliveries. The UI re-renders from it.
	onChange func()
}

// NewListView returns an unmounted list view.
func NewListView(client libis.Client, session *Session, registry *Registry, alert Alerter, onChange func()) *ListView {
	if onChange == nil {
		onChange = func() {}
	}

	return &ListView{
		client:   client,
		session:  session,
		registry: registry,
		alert:    alert,
		sort:     libis.DefaultSort(),
		onChange: onChange,
	}
}

// Mount fetches the priority catalog once and opens the live query.
// A catalog failure is alerted and leaves the catalog empty, priority
// names then render blank but the rest of the screen still works.
func (v *ListView) Mount() {
	if !v.session.Present() {
		return
	}

	catalog, err := v.client.Priorities()
	if err != nil {
		v.alert.Alert("Could not fetch priorities", err.Error())
	} else {
		v.mu.Lock()
		v.catalog = catalog
		v.mu.Unlock()
	}

	v.resubscribe()
}

// Unmount tears the current subscription down.
func (v *ListView) Unmount() {
	v.mu.Lock()
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// SetSort applies a new ordering choice. The old subscription is torn
// down and a new one opened immediately, there is no debouncing.
func (v *ListView) SetSort(spec libis.SortSpec) {
	v.mu.Lock()
	if v.sort == spec {
		v.mu.Unlock()
		return
	}
	v.sort = spec
	v.mu.Unlock()

	v.resubscribe()
}

// Sort returns the current ordering choice.
func (v *ListView) Sort() libis.SortSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sort
}

// Catalog returns the priority catalog fetched at mount.
func (v *ListView) Catalog() []libis.Priority {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.catalog
}

// Items returns the current rows, nil while loading.
func (v *ListView) Items() []DisplayItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

// Loading returns true until the first snapshot arrived.
func (v *ListView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items == nil
}

// CanAdd returns false with an alert in trial mode: the sample scope is
// read-only. No request is ever issued for a blocked action.
func (v *ListView) CanAdd() bool {
	if !v.session.Present() {
		return false
	}

	if v.session.Anonymous() {
		v.alert.Alert("Trial mode does not permit adding data", "Cancel to continue browsing the samples.")
		return false
	}

	return true
}

// Delete removes one item after the UI confirmed it. Blocked with an
// alert in trial mode, before any request is issued.
func (v *ListView) Delete(id string) {
	if !v.session.Present() {
		return
	}

	if v.session.Anonymous() {
		v.alert.Alert("Trial mode does not permit deleting data", "Cancel to continue browsing the samples.")
		return
	}

	if err := v.client.DeleteItem(id); err != nil {
		v.alert.Alert("Could not delete the item", err.Error())
		return
	}

	v.alert.Alert("The item has been deleted", "")
}

// resubscribe reopens the live query with the current ordering. It runs
// whenever the catalog or the sort spec changed, and only when a user is
// authenticated. The teardown handle is published to the registry so the
// sign-out and cancellation flows can force-close it.
func (v *ListView) resubscribe() {
	if !v.session.Present() {
		return
	}

	v.mu.Lock()
	previous := v.unsubscribe
	v.items = []DisplayItem{}
	sort := v.sort
	v.mu.Unlock()

	if previous != nil {
		previous()
	}

	unsubscribe, err := v.client.Subscribe(sort, v.snapshot)
	if err != nil {
		v.alert.Alert("Could not fetch the items", err.Error())
		return
	}

	v.mu.Lock()
	v.unsubscribe = unsubscribe
	v.mu.Unlock()

	if v.registry != nil {
		v.registry.Set(unsubscribe)
	}

	v.onChange()
}

// snapshot consumes one live query emission: the full current result set,
// mapped through the catalog. A mapping failure resets the list to empty
// and alerts, the subscription itself stays open.
func (v *ListView) snapshot(items []libis.Item, err error) {
	if err != nil {
		v.mu.Lock()
		v.items = []DisplayItem{}
		v.mu.Unlock()

		v.alert.Alert("An error occurred", "Could not fetch the items, try again. "+err.Error())
		v.onChange()
		return
	}

	v.mu.Lock()
	rows := make([]DisplayItem, 0, len(items))
	for _, item := range items {
		// Records missing required fields are skipped.
		if item.ID == "" || item.BodyText == "" {
			continue
		}

		rows = append(rows, DisplayItem{
			ID:           item.ID,
			BodyText:     item.BodyText,
			UpdatedAt:    item.UpdatedAt,
			Priority:     PriorityName(v.catalog, item.Priority),
			PriorityCode: item.Priority,
		})
	}
	v.items = rows
	v.mu.Unlock()

	v.onChange()
}

// PriorityName resolves a priority code into its catalog name.
// Unresolved codes render blank.
func PriorityName(catalog []libis.Priority, code int) string {
	for _, priority := range catalog {
		if priority.ID == code {
			return priority.Name
		}
	}
	return ""
}
