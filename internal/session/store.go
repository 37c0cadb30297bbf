package session

import (
	"sync"

	"auctionbay-client/internal/domain/identity"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Snapshot is the session state delivered to subscribers. It is a copy;
// readers in independent UI regions never share mutable state with the
// store.
type Snapshot struct {
	Identity      identity.Identity
	Authenticated bool
}

// Store is the single process-wide session. All UI regions read the same
// instance and re-render on change through Subscribe. There is exactly one
// writer path per transition: login success, confirmed sign-out, or an
// auth-failure classification.
type Store struct {
	mu          sync.RWMutex
	current     *identity.Identity
	subscribers map[string]chan Snapshot
	closed      bool
	logger      zerolog.Logger
}

type StoreParams struct {
	Logger zerolog.Logger
}

// NewStore creates the session store in the anonymous state
func NewStore(params StoreParams) *Store {
	return &Store{
		subscribers: make(map[string]chan Snapshot),
		logger:      params.Logger.With().Str("component", "session_store").Logger(),
	}
}

// Login replaces the stored identity atomically. Every subscriber observes
// the new value on its next receive.
func (s *Store) Login(id identity.Identity) {
	s.mu.Lock()
	stored := id
	s.current = &stored
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Str("user_id", id.ID.String()).Msg("Session authenticated")
	s.notify(snap)
}

// Signout clears the session to anonymous. Callers must only invoke it
// after the backend sign-out returned a success classification; a rejected
// sign-out leaves the session intact.
func (s *Store) Signout() {
	s.mu.Lock()
	s.current = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Msg("Session signed out")
	s.notify(snap)
}

// ForceLogout clears the session in response to an auth-failure
// classification from any backend call
func (s *Store) ForceLogout(reason string) {
	s.mu.Lock()
	wasAuthenticated := s.current != nil
	s.current = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !wasAuthenticated {
		return
	}

	s.logger.Warn().Str("reason", reason).Msg("Session invalidated by backend")
	s.notify(snap)
}

// Current returns the authenticated identity, if any. The returned value
// is a copy.
func (s *Store) Current() (identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return identity.Identity{}, false
	}
	return *s.current, true
}

// Subscribe registers a reader region. The returned channel delivers a
// snapshot on every transition; the cancel function detaches the region.
// Delivery is latest-wins: a region that has not drained yet only misses
// intermediate states, never the final one.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subID := uuid.New().String()
	ch := make(chan Snapshot, 1)
	if !s.closed {
		s.subscribers[subID] = ch
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[subID]; ok {
			delete(s.subscribers, subID)
			close(sub)
		}
	}

	return ch, cancel
}

// Close detaches all subscribers, for process teardown
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for subID, ch := range s.subscribers {
		delete(s.subscribers, subID)
		close(ch)
	}

	s.logger.Info().Msg("Session store closed")
}

func (s *Store) snapshotLocked() Snapshot {
	if s.current == nil {
		return Snapshot{}
	}
	return Snapshot{Identity: *s.current, Authenticated: true}
}

// notify delivers the snapshot to every subscriber without blocking the
// writer. A full channel is drained first so the subscriber always sees
// the newest state.
func (s *Store) notify(snap Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
