// Package session persists per-session calendar filter state.  The
// primary backend is Redis so that several API instances share one
// session view; when no Redis client is available the store degrades
// to a process-local map, which is sufficient for single-instance
// deployments and tests.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// FilterStore stores one FilterState per session key.  Keys follow the
// pattern "<memberID>:<moduleKey>" so that multiple calendar instances
// on one page keep independent selections without process-wide state.
type FilterStore struct {
	rdb *redis.Client
	ttl time.Duration

	mu  sync.RWMutex
	mem map[string]model.FilterState
}

// NewFilterStore builds a FilterStore.  rdb may be nil, in which case
// the in-memory fallback is used.  ttl bounds how long an idle session
// selection survives in Redis; zero means 24h.
func NewFilterStore(rdb *redis.Client, ttl time.Duration) *FilterStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &FilterStore{
		rdb: rdb,
		ttl: ttl,
		mem: make(map[string]model.FilterState),
	}
}

func filterKey(sessionKey string) string { return "rb:filter:" + sessionKey }

// Load returns the stored state for a session key, or nil when the
// session has no stored selection.
func (s *FilterStore) Load(ctx context.Context, sessionKey string) (*model.FilterState, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, filterKey(sessionKey)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		var st model.FilterState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, err
		}
		return &st, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.mem[sessionKey]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// Save overwrites the state of a session key.
func (s *FilterStore) Save(ctx context.Context, state model.FilterState) error {
	if s.rdb != nil {
		raw, err := json.Marshal(state)
		if err != nil {
			return err
		}
		return s.rdb.Set(ctx, filterKey(state.SessionKey), raw, s.ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[state.SessionKey] = state
	return nil
}
