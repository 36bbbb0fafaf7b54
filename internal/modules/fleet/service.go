// README: Fleet service; listings and cached availability stats.
package fleet

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taxigo/internal/types"
)

const (
	statsKey = "fleet:stats"
	statsTTL = 15 * time.Second
)

type Service struct {
	store *Store
	redis *redis.Client
}

// NewService wires fleet reads. redis may be nil; stats then hit the store
// on every call.
func NewService(store *Store, redis *redis.Client) *Service {
	return &Service{store: store, redis: redis}
}

// List returns drivers, optionally filtered by status. Unknown filter values
// fall back to the unfiltered listing, matching the public listing behavior.
func (s *Service) List(ctx context.Context, statusFilter string) ([]Driver, string, error) {
	filter := "all"
	var status Status
	if ValidStatus(statusFilter) {
		filter = statusFilter
		status = Status(statusFilter)
	}
	drivers, err := s.store.List(ctx, status)
	return drivers, filter, err
}

func (s *Service) Get(ctx context.Context, id types.ID) (Driver, error) {
	return s.store.Get(ctx, id)
}

// Stats returns the availability breakdown, cached briefly in redis because
// it renders on the landing page for every visitor.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.redis != nil {
		if b, err := s.redis.Get(ctx, statsKey).Bytes(); err == nil {
			var st Stats
			if json.Unmarshal(b, &st) == nil {
				return st, nil
			}
		}
	}
	st, err := s.store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	if s.redis != nil {
		if b, err := json.Marshal(st); err == nil {
			_ = s.redis.Set(ctx, statsKey, b, statsTTL).Err()
		}
	}
	return st, nil
}
