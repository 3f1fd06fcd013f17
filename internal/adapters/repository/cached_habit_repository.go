package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

const (
	habitListKey    = "habits:all"
	habitListGenKey = "habits:all:gen"
	habitListTTL    = 30 * time.Minute
	habitItemTTL    = 6 * time.Hour
)

// CachedHabitRepository is a read-through Redis cache in front of another
// HabitRepository. Habits never change after creation, so single items are
// cached until their TTL. The list is stored under a generation that Create
// bumps, so a List racing a Create can only fill a generation nobody reads.
type CachedHabitRepository struct {
	next   domain.HabitRepository
	cache  *redis.Client
	logger *zap.Logger
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client, logger *zap.Logger) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:   next,
		cache:  cache,
		logger: logger.Named("habit_cache"),
	}
}

func (r *CachedHabitRepository) itemKey(id int64) string {
	return fmt.Sprintf("habit:%d", id)
}

// listKey returns the key of the current list generation. ok is false when
// the generation cannot be read, in which case the list must not be cached.
func (r *CachedHabitRepository) listKey(ctx context.Context) (key string, ok bool) {
	gen, err := r.cache.Get(ctx, habitListGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warn("failed to read habit list generation", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("%s:%d", habitListKey, gen), true
}

func (r *CachedHabitRepository) invalidateList(ctx context.Context) {
	if err := r.cache.Incr(ctx, habitListGenKey).Err(); err != nil {
		r.logger.Warn("failed to invalidate habit list", zap.Error(err))
	}
}

func (r *CachedHabitRepository) read(ctx context.Context, key string, dst any) bool {
	val, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis read error", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		r.logger.Warn("corrupted cache entry, cleaning up key", zap.String("key", key))
		r.cache.Del(ctx, key)
		return false
	}
	return true
}

func (r *CachedHabitRepository) write(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Warn("redis set error", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidateList(ctx)
	return nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	key := r.itemKey(id)

	var cached domain.Habit
	if r.read(ctx, key, &cached) {
		return &cached, nil
	}

	habit, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.write(ctx, key, habit, habitItemTTL)
	return habit, nil
}

func (r *CachedHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	key, cacheable := r.listKey(ctx)

	var cached []*domain.Habit
	if cacheable && r.read(ctx, key, &cached) {
		return cached, nil
	}

	habits, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		r.write(ctx, key, habits, habitListTTL)
	}
	return habits, nil
}

func (r *CachedHabitRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}
