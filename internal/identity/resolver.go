package identity

import (
	"context"
	"log/slog"
	"sync"

	"rdfportal/internal/models"
)

// EventType classifies an auth state change delivered to the resolver.
type EventType string

const (
	EventInitialSession EventType = "INITIAL_SESSION"
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event is one auth state change plus the session it carries (nil for
// sign-out).
type Event struct {
	Type    EventType
	Session *Session
}

// State is the resolved identity snapshot handed to the route guard.
// Loading is true from construction until the first event has been fully
// processed, including its profile load.
type State struct {
	User    *models.Profile
	Session *Session
	Loading bool
}

// Resolver turns a stream of auth events into a single coherent identity
// state. Events are applied strictly in arrival order; a profile load
// belonging to a superseded event is cancelled and its result discarded, so
// the published state always reflects the newest event.
type Resolver struct {
	provider Provider

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	subs       map[uint64]chan State
	nextSubID  uint64
	closed     bool
	wg         sync.WaitGroup
}

// NewResolver creates a resolver in the loading state. No state is published
// until the first Notify call completes.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{
		provider: provider,
		state:    State{Loading: true},
		subs:     make(map[uint64]chan State),
	}
}

// Snapshot returns the current resolved state.
func (r *Resolver) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers a listener for state changes. The returned channel
// receives every published state in order; the unsubscribe function must be
// called exactly once when the listener is done.
func (r *Resolver) Subscribe() (<-chan State, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	ch := make(chan State, 16)
	if r.closed {
		close(ch)
		return ch, func() {}
	}
	r.subs[id] = ch

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
}

// Notify applies one auth event. A sign-out is synchronous; events that carry
// a session trigger an asynchronous profile load tied to this event's
// generation. If another event arrives before the load finishes, the load is
// cancelled and its result never published.
func (r *Resolver) Notify(event Event) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}

	// Supersede any in-flight profile load.
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
	gen := r.generation

	if event.Type == EventSignedOut || event.Session == nil {
		r.state = State{Loading: false}
		r.publishLocked()
		r.mu.Unlock()
		return
	}

	// Recovery sessions exist only to authorize a password reset; they never
	// resolve to a signed-in user.
	if event.Session.Recovery {
		r.state = State{Session: event.Session, Loading: false}
		r.publishLocked()
		r.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	session := event.Session
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		profile, err := r.provider.LoadProfile(ctx, session.UserID)

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.generation != gen || r.closed {
			return
		}
		r.cancel = nil

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Failed to load profile for session",
				"user_id", session.UserID, "error", err)
			// Keep the session usable even when the profile row is missing;
			// the guard treats a nil user as a guest.
			r.state = State{Session: session, Loading: false}
		} else {
			r.state = State{User: profile, Session: session, Loading: false}
		}
		r.publishLocked()
	}()
}

// Close cancels any in-flight load and closes all subscriber channels. The
// resolver ignores events after Close.
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
	subs := r.subs
	r.subs = make(map[uint64]chan State)
	r.mu.Unlock()

	r.wg.Wait()
	for _, ch := range subs {
		close(ch)
	}
}

// publishLocked fans the current state out to subscribers. Callers hold r.mu.
// A subscriber that has fallen 16 states behind loses the oldest update
// rather than blocking every other listener.
func (r *Resolver) publishLocked() {
	for _, ch := range r.subs {
		select {
		case ch <- r.state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- r.state:
			default:
			}
		}
	}
}
