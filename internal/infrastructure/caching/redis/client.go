// Package redis is the JSON read-through cache behind trip details
// (trip:{id}) and calendar year overviews (calendar:year:{user}:{year}).
// Every key is stored under the service namespace so the instance can be
// shared with other services.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

const Namespace = "trip-service"

type Client struct {
	rdb *redis.Client
	ns  string
}

// New connects to url (redis://...) and fails fast if the server is down.
func New(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := NewFromClient(redis.NewClient(opts))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

func NewFromClient(rdb *redis.Client) *Client { return &Client{rdb: rdb, ns: Namespace} }

func (c *Client) Close() error { return c.rdb.Close() }

func (c *Client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

// Key maps a cache key to the stored redis key.
func (c *Client) Key(key string) string { return c.ns + ":" + key }

// Get decodes the cached JSON at key into dest. A miss is (false, nil). An
// entry that no longer decodes, e.g. written by an older graph shape, is
// dropped and reported as a miss.
func (c *Client) Get(ctx context.Context, key string, dest any) (bool, error) {
	k := c.Key(key)
	val, err := c.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		zlog.Warn().Err(err).Str("key", k).Msg("dropping undecodable cache entry")
		if delErr := c.rdb.Unlink(ctx, k).Err(); delErr != nil {
			return false, delErr
		}
		return false, nil
	}
	return true, nil
}

// Set stores val as JSON. ttl <= 0 stores without expiry.
func (c *Client) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, c.Key(key), b, ttl).Err()
}

// Delete unlinks keys in one round trip. Blank keys are ignored.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		full = append(full, c.Key(k))
	}
	if len(full) == 0 {
		return nil
	}
	return c.rdb.Unlink(ctx, full...).Err()
}
