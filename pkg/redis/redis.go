// Package redispkg builds the Redis client and exposes it as Fiber storage for shared rate-limit counters.
package redispkg

import (
	"context"
	"crypto/tls"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"postboard/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

const defaultAddr = "redis:6379"

// ParseRedisURL splits a REDIS_URL-like string into its parts. Accepts either
// a plain `host:port` or a `redis://`/`rediss://` URL.
func ParseRedisURL(raw string) (addr, password string, db int, useTLS bool) {
	if raw == "" {
		return defaultAddr, "", 0, false
	}

	addr = raw
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		u, err := url.Parse(raw)
		if err != nil {
			return raw, "", 0, false
		}
		addr = u.Host
		useTLS = u.Scheme == "rediss"
		if u.User != nil {
			if pw, ok := u.User.Password(); ok {
				password = pw
			}
		}
		if p := strings.Trim(u.Path, "/"); p != "" {
			if n, err := strconv.Atoi(p); err == nil {
				db = n
			}
		}
	}
	return addr, password, db, useTLS
}

// NewClient builds a redis client from a REDIS_URL-like string. It disables
// maintnotifications to avoid handshake attempts on servers that don't
// implement the subcommand. No connection is made until the first command.
func NewClient(raw string) *redis.Client {
	addr, password, db, useTLS := ParseRedisURL(raw)

	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	opts.MaintNotificationsConfig = &maintnotifications.Config{Mode: maintnotifications.ModeDisabled}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})
	return client
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Storage implements fiber.Storage on top of a shared client. Every key is
// stored under Prefix so Reset only touches this storage's keys.
type Storage struct {
	Raw     *redis.Client
	Prefix  string
	Timeout time.Duration
}

// NewStorage wraps client. The client stays owned by the caller.
func NewStorage(client *redis.Client, prefix string) *Storage {
	return &Storage{Raw: client, Prefix: prefix, Timeout: time.Second}
}

func (s *Storage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.Timeout)
}

func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.Raw.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.Raw.Set(ctx, s.Prefix+key, val, exp).Err()
}

func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.Raw.Del(ctx, s.Prefix+key).Err()
}

// Reset removes every key under Prefix.
func (s *Storage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.Raw.Scan(ctx, 0, s.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.Raw.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client is closed by its owner.
func (s *Storage) Close() error {
	return nil
}

var _ fiber.Storage = (*Storage)(nil)
