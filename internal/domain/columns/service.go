package columns

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bankreco/pkg/logger"
)

// KeyPrefix prefixes the settings key of every user's registry.
const KeyPrefix = "ui.columns:"

// Service hands out one persistent Registry per user, loading it lazily
// from the settings store on first use.
type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time

	mu    sync.Mutex
	slots map[string]*userSlot
}

// userSlot serializes loading, resetting and evicting one user's registry.
type userSlot struct {
	mu       sync.Mutex
	reg      *Registry
	lastUsed time.Time
	dropped  bool
}

// NewService creates a Service backed by store.
func NewService(store Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store: store,
		log:   log.WithComponent("columns"),
		now:   time.Now,
		slots: make(map[string]*userSlot),
	}
}

// UserKey returns the settings key holding a user's registry.
func UserKey(userID string) string {
	return KeyPrefix + userID
}

// lockSlot returns the live slot of userID, locked.
func (s *Service) lockSlot(userID string) *userSlot {
	for {
		s.mu.Lock()
		slot, ok := s.slots[userID]
		if !ok {
			slot = &userSlot{lastUsed: s.now()}
			s.slots[userID] = slot
		}
		s.mu.Unlock()

		slot.mu.Lock()
		if !slot.dropped {
			return slot
		}
		// evicted between the lookup and the lock
		slot.mu.Unlock()
	}
}

// For returns the registry of userID. Loading one user's registry does
// not block requests of other users.
func (s *Service) For(ctx context.Context, userID string) (*Registry, error) {
	if userID == "" {
		return nil, errors.New("columns: empty user id")
	}

	slot := s.lockSlot(userID)
	defer slot.mu.Unlock()

	if slot.reg == nil {
		r, err := Load(ctx, s.store, UserKey(userID), s.log.With("user_id", userID))
		if err != nil {
			return nil, err
		}
		slot.reg = r
	}
	slot.lastUsed = s.now()
	return slot.reg, nil
}

// Reset drops a user's registry and its stored snapshot, as done on
// logout. Concurrent For calls for the same user wait for the reset and
// then start from an empty registry.
func (s *Service) Reset(ctx context.Context, userID string) error {
	slot := s.lockSlot(userID)
	defer slot.mu.Unlock()

	if r := slot.reg; r != nil {
		slot.reg = nil
		r.Clear()
		if err := r.Close(ctx); err != nil {
			s.log.Warnw("failed to flush registry before reset", "user_id", userID, "error", err)
		}
	}
	if err := s.store.Delete(ctx, UserKey(userID)); err != nil {
		return fmt.Errorf("delete column settings: %w", err)
	}
	return nil
}

// EvictIdle flushes and unloads the registries not requested for maxIdle.
// It returns the number of users evicted.
func (s *Service) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	candidates := make(map[string]*userSlot, len(s.slots))
	for userID, slot := range s.slots {
		candidates[userID] = slot
	}
	s.mu.Unlock()

	evicted := 0
	for userID, slot := range candidates {
		slot.mu.Lock()
		if slot.dropped || slot.lastUsed.After(cutoff) {
			slot.mu.Unlock()
			continue
		}
		_ = s.drop(ctx, userID, slot)
		slot.mu.Unlock()
		evicted++
	}
	return evicted
}

// RunEviction calls EvictIdle every maxIdle/2 until ctx is done. A
// non-positive maxIdle disables eviction.
func (s *Service) RunEviction(ctx context.Context, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(ctx, maxIdle); n > 0 {
				s.log.Debugw("evicted idle column registries", "count", n)
			}
		}
	}
}

// drop closes the slot's registry and removes the slot. Called with
// slot.mu held.
func (s *Service) drop(ctx context.Context, userID string, slot *userSlot) error {
	slot.dropped = true
	s.mu.Lock()
	if s.slots[userID] == slot {
		delete(s.slots, userID)
	}
	s.mu.Unlock()

	r := slot.reg
	slot.reg = nil
	if r == nil {
		return nil
	}
	if err := r.Close(ctx); err != nil {
		s.log.Warnw("failed to flush column settings", "user_id", userID, "error", err)
		return fmt.Errorf("close registry of %s: %w", userID, err)
	}
	return nil
}

// Close flushes and closes every loaded registry.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	slots := s.slots
	s.slots = make(map[string]*userSlot)
	s.mu.Unlock()

	var errs []error
	for userID, slot := range slots {
		slot.mu.Lock()
		if !slot.dropped {
			errs = append(errs, s.drop(ctx, userID, slot))
		}
		slot.mu.Unlock()
	}
	return errors.Join(errs...)
}
