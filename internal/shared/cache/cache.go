package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Key is a strongly typed cache key: an entity plus the filters the cached
// value was computed under. Invalidation works through per-entity sets, not
// key-prefix matching, so a write to one entity never has to guess which
// string patterns to sweep.
type Key struct {
	Entity  string
	Filters map[string]string
}

func NewKey(entity string, filters map[string]string) Key {
	return Key{Entity: entity, Filters: filters}
}

func (k Key) String() string {
	if len(k.Filters) == 0 {
		return "dms:" + k.Entity
	}

	parts := make([]string, 0, len(k.Filters))
	for f, v := range k.Filters {
		parts = append(parts, f+"="+v)
	}
	sort.Strings(parts)
	return fmt.Sprintf("dms:%s:%s", k.Entity, strings.Join(parts, ","))
}

func (k Key) setName() string {
	return "dms:keys:" + k.Entity
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key Key, dest any) error {
	raw, err := c.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Set stores the value and registers the key in its entity's invalidation
// set so Invalidate can find it later.
func (c *Cache) Set(ctx context.Context, key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key.String(), raw, c.ttl)
	pipe.SAdd(ctx, key.setName(), key.String())
	pipe.Expire(ctx, key.setName(), c.ttl*2)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate drops every cached key registered for the entity.
func (c *Cache) Invalidate(ctx context.Context, entity string) error {
	setName := Key{Entity: entity}.setName()

	keys, err := c.rdb.SMembers(ctx, setName).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.Del(ctx, setName)
	_, err = pipe.Exec(ctx)
	return err
}
