package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// Provider adapts a Redis client to cached.Provider, for sharing encode
// results across processes. The client is caller-owned; Close here is a
// no-op so one client can back several caches.
type Provider struct {
	c      rd.UniversalClient
	prefix string
}

func New(client rd.UniversalClient, prefix string) (*Provider, error) {
	if client == nil {
		return nil, errors.New("redis: client is required")
	}
	return &Provider{c: client, prefix: prefix}, nil
}

func (p *Provider) key(k string) string {
	if p.prefix == "" {
		return k
	}
	return p.prefix + ":" + k
}

func (p *Provider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.c.Get(ctx, p.key(key)).Bytes()
	if errors.Is(err, rd.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Provider) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if err := p.c.Set(ctx, p.key(key), value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(ctx context.Context, key string) error {
	return p.c.Del(ctx, p.key(key)).Err()
}

func (p *Provider) Close(context.Context) error { return nil }
