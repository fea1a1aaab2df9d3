package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taskmanager/pkg/config"
	"taskmanager/pkg/logger"
)

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 100 * time.Millisecond
	lockRetries   = 50
)

type Client struct {
	rdb *redis.Client
}

func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Redis connected", "addr", opt.Addr, "db", opt.DB)

	return &Client{rdb: rdb}, nil
}

// ScanAndDelete deletes every key matching pattern and returns how many were removed.
func (c *Client) ScanAndDelete(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	var cursor uint64

	for {
		keys, nextCursor, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, err
		}

		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockKey, "1", ttl).Result()
}

func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, lockKey).Err()
}

func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, expiration).Err()
}

// GetJSON returns redis.Nil when the key is missing.
func (c *Client) GetJSON(ctx context.Context, key string, target interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// IsMiss reports whether err means the key was absent.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// GetOrSet reads key into target, or computes it with getter under a short redis lock
// so only one process fills a cold key. Waiters poll until the value shows up.
func (c *Client) GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error {
	lockKey := "lock:" + key

	for attempt := 0; ; attempt++ {
		err := c.GetJSON(ctx, key, target)
		if err == nil {
			return nil
		}
		if !IsMiss(err) {
			return err
		}

		locked, err := c.AcquireLock(ctx, lockKey, lockTTL)
		if err != nil {
			return err
		}
		if locked {
			break
		}

		if attempt >= lockRetries {
			// lock holder is stuck, compute without it
			return fill(getter, target)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
	defer func() {
		if err := c.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Warn("Failed to release cache lock", "key", lockKey, "error", err)
		}
	}()

	if err := c.GetJSON(ctx, key, target); err == nil {
		return nil
	}

	result, err := getter()
	if err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, result, ttl); err != nil {
		logger.Warn("Failed to cache result", "key", key, "error", err)
	}

	return copyJSON(result, target)
}

func fill(getter func() (interface{}, error), target interface{}) error {
	result, err := getter()
	if err != nil {
		return err
	}
	return copyJSON(result, target)
}

func copyJSON(src, dst interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
