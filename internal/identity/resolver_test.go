package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"rdfportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider implements Provider with programmable LoadProfile behavior.
type stubProvider struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	// delay simulates a slow profile load; a canceled context aborts it.
	delay time.Duration
	loads int
}

func newStubProvider() *stubProvider {
	return &stubProvider{profiles: make(map[string]*models.Profile)}
}

func (p *stubProvider) addProfile(profile *models.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[profile.ID] = profile
}

func (p *stubProvider) LoadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p.mu.Lock()
	delay := p.delay
	p.loads++
	profile, ok := p.profiles[userID]
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, models.NewNotFoundError("Profile", userID)
	}
	return profile, nil
}

func (p *stubProvider) GetSession(context.Context, string) (*Session, error) { return nil, nil }
func (p *stubProvider) SignUp(context.Context, string, string, string, *string) (*models.Profile, error) {
	return nil, nil
}
func (p *stubProvider) SignInWithPassword(context.Context, string, string) (*Session, *models.Profile, error) {
	return nil, nil, nil
}
func (p *stubProvider) SignOut(context.Context, *Session) error { return nil }
func (p *stubProvider) ResetPasswordForEmail(context.Context, string) (string, error) {
	return "", nil
}
func (p *stubProvider) ResetPassword(context.Context, string, string) error { return nil }

func waitForState(t *testing.T, ch <-chan State, timeout time.Duration) State {
	t.Helper()
	select {
	case state, ok := <-ch:
		require.True(t, ok, "subscription closed unexpectedly")
		return state
	case <-time.After(timeout):
		t.Fatal("timed out waiting for resolver state")
		return State{}
	}
}

func TestResolverStartsLoading(t *testing.T) {
	r := NewResolver(newStubProvider())
	defer r.Close()

	state := r.Snapshot()
	assert.True(t, state.Loading)
	assert.Nil(t, state.User)
}

func TestResolverSignInResolvesProfile(t *testing.T) {
	provider := newStubProvider()
	provider.addProfile(&models.Profile{ID: "u1", Role: models.RoleUser})
	r := NewResolver(provider)
	defer r.Close()

	ch, unsub := r.Subscribe()
	defer unsub()

	r.Notify(Event{Type: EventSignedIn, Session: &Session{Token: "t", UserID: "u1"}})

	state := waitForState(t, ch, time.Second)
	assert.False(t, state.Loading)
	require.NotNil(t, state.User)
	assert.Equal(t, "u1", state.User.ID)
	require.NotNil(t, state.Session)
	assert.Equal(t, "t", state.Session.Token)
}

func TestResolverSignOutClearsState(t *testing.T) {
	provider := newStubProvider()
	provider.addProfile(&models.Profile{ID: "u1", Role: models.RoleUser})
	r := NewResolver(provider)
	defer r.Close()

	ch, unsub := r.Subscribe()
	defer unsub()

	r.Notify(Event{Type: EventSignedIn, Session: &Session{UserID: "u1"}})
	waitForState(t, ch, time.Second)

	r.Notify(Event{Type: EventSignedOut})
	state := waitForState(t, ch, time.Second)
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)
	assert.Nil(t, state.Session)
}

func TestResolverNewestEventWins(t *testing.T) {
	// The first event's profile load is slow; before it completes, a second
	// event arrives. The published state must reflect the second event only.
	provider := newStubProvider()
	provider.addProfile(&models.Profile{ID: "old", Role: models.RoleUser})
	provider.addProfile(&models.Profile{ID: "new", Role: models.RoleAdmin})
	provider.delay = 100 * time.Millisecond

	r := NewResolver(provider)
	defer r.Close()

	r.Notify(Event{Type: EventSignedIn, Session: &Session{UserID: "old"}})

	ch, unsub := r.Subscribe()
	defer unsub()

	provider.mu.Lock()
	provider.delay = 0
	provider.mu.Unlock()
	r.Notify(Event{Type: EventTokenRefreshed, Session: &Session{UserID: "new"}})

	state := waitForState(t, ch, time.Second)
	require.NotNil(t, state.User)
	assert.Equal(t, "new", state.User.ID)

	// The superseded load must never overwrite the newer state.
	time.Sleep(150 * time.Millisecond)
	snapshot := r.Snapshot()
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "new", snapshot.User.ID)
}

func TestResolverUnsubscribeStopsDelivery(t *testing.T) {
	provider := newStubProvider()
	provider.addProfile(&models.Profile{ID: "u1", Role: models.RoleUser})
	r := NewResolver(provider)
	defer r.Close()

	ch, unsub := r.Subscribe()
	r.Notify(Event{Type: EventSignedIn, Session: &Session{UserID: "u1"}})
	waitForState(t, ch, time.Second)

	unsub()
	// The channel is closed on unsubscribe; no further states arrive.
	_, ok := <-ch
	assert.False(t, ok)
}

func TestResolverEventsInOrder(t *testing.T) {
	provider := newStubProvider()
	provider.addProfile(&models.Profile{ID: "u1", Role: models.RoleUser})
	r := NewResolver(provider)
	defer r.Close()

	ch, unsub := r.Subscribe()
	defer unsub()

	r.Notify(Event{Type: EventInitialSession, Session: &Session{UserID: "u1"}})
	state := waitForState(t, ch, time.Second)
	require.NotNil(t, state.User)

	r.Notify(Event{Type: EventSignedOut})
	state = waitForState(t, ch, time.Second)
	assert.Nil(t, state.User)

	r.Notify(Event{Type: EventSignedIn, Session: &Session{UserID: "u1"}})
	state = waitForState(t, ch, time.Second)
	require.NotNil(t, state.User)
}

func TestResolverRecoverySessionHasNoUser(t *testing.T) {
	provider := newStubProvider()
	r := NewResolver(provider)
	defer r.Close()

	ch, unsub := r.Subscribe()
	defer unsub()

	r.Notify(Event{Type: EventSignedIn, Session: &Session{UserID: "u1", Recovery: true}})
	state := waitForState(t, ch, time.Second)
	assert.Nil(t, state.User)
	require.NotNil(t, state.Session)
	assert.True(t, state.Session.Recovery)

	// No profile load is attempted for recovery sessions.
	provider.mu.Lock()
	assert.Zero(t, provider.loads)
	provider.mu.Unlock()
}
