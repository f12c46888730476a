package client

import (
	"sync"

	"github.com/mdouchement/impulsestop/pkg/libis"
)

// A Registry is a single-slot holder for the teardown function of the
// currently active live query. The list view publishes its handle here so
// that sign-out and account-cancellation flows, which live elsewhere, can
// force-close the subscription before navigating away.
//
// Last write wins: a second Set silently replaces the first without
// invoking it. Callers replacing a handle must invoke the previous one
// themselves.
type Registry struct {
	mu          sync.Mutex
	unsubscribe libis.Unsubscribe
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set stores the given teardown handle, replacing any previous one.
func (r *Registry) Set(unsubscribe libis.Unsubscribe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribe = unsubscribe
}

// Get returns the stored teardown handle, nil when none is stored.
func (r *Registry) Get() libis.Unsubscribe {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unsubscribe
}
