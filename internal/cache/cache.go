package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client is valid and behaves as an always-empty cache.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Ping reports whether redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return nil
	}
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return nil
	}
	return nil
}

// GetJSON decodes a cached JSON value into dst. It reports false on miss or decode failure.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON encodes value as JSON and caches it.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return c.Set(ctx, key, payload, ttl)
}

var errStaleGeneration = errors.New("cache generation changed")

func generationKey(key string) string {
	return key + ":gen"
}

// Generation returns the write generation of key. Read it before loading from
// the database and pass it to SetJSONAtGeneration. ok is false when the cache
// is unavailable, in which case the caller should not repopulate.
func (c *Client) Generation(ctx context.Context, key string) (gen int64, ok bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	gen, err := c.client.Get(ctx, generationKey(key)).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return gen, true
}

// SetJSONAtGeneration caches value only if no Invalidate ran on key since gen
// was read, so a reader holding an old snapshot cannot overwrite a newer write.
func (c *Client) SetJSONAtGeneration(ctx context.Context, key string, value interface{}, ttl time.Duration, gen int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil
	}

	genKey := generationKey(key)
	// Errors are ignored: a skipped write is just a later miss.
	_ = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}, genKey)
	return nil
}

// Invalidate bumps the generation of key and drops its cached value. Call it
// after the underlying write has committed.
func (c *Client) Invalidate(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, _ = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(key))
		pipe.Del(ctx, key)
		return nil
	})
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
