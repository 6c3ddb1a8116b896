package sqlstore

import (
	"context"
	"fmt"

	"github.com/goliatone/go-relay/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const relayStateCacheKey = "go-relay::relay_state::v1"

type cachedRelayState struct {
	State core.RelayState
	Found bool
}

// CachedRelayStateStore serves precondition reads from cache and
// invalidates on every save so the next load observes the committed state.
type CachedRelayStateStore struct {
	base  core.RelayStateStore
	cache repositorycache.CacheService
}

func NewCachedRelayStateStore(
	base core.RelayStateStore,
	cacheService repositorycache.CacheService,
) (*CachedRelayStateStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base relay state store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: relay state cache service is required")
	}
	return &CachedRelayStateStore{base: base, cache: cacheService}, nil
}

func (s *CachedRelayStateStore) Load(ctx context.Context) (core.RelayState, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.RelayState{}, false, fmt.Errorf("sqlstore: cached relay state store is not configured")
	}
	cached, err := repositorycache.GetOrFetch(ctx, s.cache, relayStateCacheKey, func(ctx context.Context) (cachedRelayState, error) {
		state, found, fetchErr := s.base.Load(ctx)
		if fetchErr != nil {
			return cachedRelayState{}, fetchErr
		}
		return cachedRelayState{State: state, Found: found}, nil
	})
	if err != nil {
		return core.RelayState{}, false, err
	}
	return cached.State, cached.Found, nil
}

func (s *CachedRelayStateStore) Save(ctx context.Context, state core.RelayState) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached relay state store is not configured")
	}
	if err := s.base.Save(ctx, state); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, relayStateCacheKey); err != nil {
		return err
	}
	return nil
}

var _ core.RelayStateStore = (*CachedRelayStateStore)(nil)
