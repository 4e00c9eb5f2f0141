package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects the Redis server. URL, when set, takes precedence over the
// individual fields.
type Options struct {
	Addr     string
	URL      string
	Password string
	DB       int
}

type Client struct {
	*redis.Client
}

// NewClient builds a client without contacting the server.
func NewClient(opts Options) (*Client, error) {
	redisOpts := &redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
		PoolSize:    10,
	}
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		parsed.DialTimeout = redisOpts.DialTimeout
		parsed.PoolSize = redisOpts.PoolSize
		redisOpts = parsed
	}
	return &Client{Client: redis.NewClient(redisOpts)}, nil
}

// Connect builds a client and verifies the server answers.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	c, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}
