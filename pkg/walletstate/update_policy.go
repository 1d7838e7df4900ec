package walletstate

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
)

// VersionState is the wallet provider's verdict on the currently
// installed app version.
type VersionState int

const (
	// VersionOK means the installed version needs no action.
	VersionOK VersionState = iota
	// VersionRecommendUpdate means an update is available but not
	// required; the wallet remains usable.
	VersionRecommendUpdate
	// VersionBlockUntilUpdate means the installed version is no longer
	// supported; the wallet must report StateBlocked until updated.
	VersionBlockUntilUpdate
)

// UpdatePolicyFetcher retrieves the current VersionState from the
// wallet provider's update-policy endpoint.
type UpdatePolicyFetcher interface {
	Fetch(ctx context.Context) (VersionState, error)
}

// UpdatePolicyRepository caches the last known VersionState and
// refreshes it in a background goroutine so callers on the UI path
// never block on a network round trip, notifying an optional callback
// whenever a refresh produces a changed value.
type UpdatePolicyRepository struct {
	fetcher UpdatePolicyFetcher
	log     logr.Logger

	mu       sync.Mutex
	current  VersionState
	callback func(VersionState)
	inFlight bool
}

// NewUpdatePolicyRepository constructs a repository that starts out
// reporting VersionOK until the first background fetch completes.
func NewUpdatePolicyRepository(fetcher UpdatePolicyFetcher, log logr.Logger) *UpdatePolicyRepository {
	return &UpdatePolicyRepository{fetcher: fetcher, current: VersionOK, log: log}
}

// Get returns the last known VersionState without fetching.
func (r *UpdatePolicyRepository) Get() VersionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetCallback registers a function invoked (from the background
// goroutine) whenever FetchInBackground observes a changed value.
// Passing nil deregisters any existing callback.
func (r *UpdatePolicyRepository) SetCallback(callback func(VersionState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callback = callback
}

// FetchInBackground triggers an asynchronous refresh if one is not
// already running. It returns immediately; the result only ever reaches
// callers through Get or the registered callback.
func (r *UpdatePolicyRepository) FetchInBackground(ctx context.Context) {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()

	go r.fetchAndCallback(ctx)
}

func (r *UpdatePolicyRepository) fetchAndCallback(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	}()

	state, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.log.Error(err, "fetch update policy")
		return
	}

	r.mu.Lock()
	changed := state != r.current
	r.current = state
	callback := r.callback
	r.mu.Unlock()

	if changed && callback != nil {
		callback(state)
	}
}
