// internal/state/redis.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"listing-monitor/internal/common/database"
	"listing-monitor/internal/common/errors"
)

// RedisStore backs transient enrichment state with Redis so a restarted or
// horizontally scaled server keeps serving in-flight view state. Entries
// expire on their own; the TTL bounds how long a hung request's loading flag
// can linger.
type RedisStore struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedis(client *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func stateKey(listingID, kind string) string {
	return fmt.Sprintf("enrichment:%s:%s", listingID, kind)
}

func (r *RedisStore) set(ctx context.Context, listingID, kind string, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, stateKey(listingID, kind), raw, r.ttl)
}

func (r *RedisStore) SetLoading(ctx context.Context, listingID, kind string) error {
	return r.set(ctx, listingID, kind, Entry{Loading: true, UpdatedAt: time.Now().UTC()})
}

func (r *RedisStore) SetValue(ctx context.Context, listingID, kind string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.set(ctx, listingID, kind, Entry{Value: raw, UpdatedAt: time.Now().UTC()})
}

func (r *RedisStore) SetFailure(ctx context.Context, listingID, kind string, failure errors.FailureKind) error {
	return r.set(ctx, listingID, kind, Entry{Failure: string(failure), UpdatedAt: time.Now().UTC()})
}

func (r *RedisStore) Get(ctx context.Context, listingID, kind string) (*Entry, error) {
	raw, err := r.client.Get(ctx, stateKey(listingID, kind))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *RedisStore) Snapshot(ctx context.Context, listingID string) (map[string]Entry, error) {
	prefix := fmt.Sprintf("enrichment:%s:", listingID)
	keys, err := r.client.ScanKeys(ctx, prefix+"*")
	if err != nil {
		return nil, err
	}

	out := make(map[string]Entry, len(keys))
	for _, key := range keys {
		raw, err := r.client.Get(ctx, key)
		if err == redis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, err
		}

		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		out[key[len(prefix):]] = e
	}
	return out, nil
}

func (r *RedisStore) Purge(ctx context.Context, listingID string) error {
	keys, err := r.client.ScanKeys(ctx, fmt.Sprintf("enrichment:%s:*", listingID))
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...)
}
