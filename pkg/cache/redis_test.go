package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	mu       sync.Mutex
	data     map[string]string
	ttl      map[string]time.Duration
	failGets int
	closed   bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGets > 0 {
		f.failGets--
		return redis.NewStringResult("", errors.New("dial tcp: connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = string(value.([]byte))
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := newRedisCache(fake, fastBackoff)

	if data, hit, err := c.Get(ctx, "k"); err != nil || hit || data != nil {
		t.Errorf("Get(missing) = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "k", []byte("pgn"), TTLExport); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if fake.ttl["k"] != TTLExport {
		t.Errorf("ttl = %v, want %v", fake.ttl["k"], TTLExport)
	}

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "pgn" {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}

	if err := c.Close(); err != nil || !fake.closed {
		t.Errorf("Close() = %v, closed = %v", err, fake.closed)
	}
}

func TestRedisCacheRetriesConnectionErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.data["k"] = "v"
	fake.failGets = 1
	c := newRedisCache(fake, fastBackoff)

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get after one failure = %q, %v, %v", data, hit, err)
	}
}

func TestRedisCacheGivesUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := newFakeRedis()
	fake.failGets = 10
	c := newRedisCache(fake, fastBackoff)

	if _, _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expected an error once retries are cut short")
	}
}

func TestRetryableClassification(t *testing.T) {
	if retryable(nil) != nil {
		t.Error("nil stays nil")
	}
	if !IsRetryable(retryable(errors.New("i/o timeout"))) {
		t.Error("connection errors should be retried")
	}
	if !errors.Is(retryable(errors.New("i/o timeout")), ErrNetwork) {
		t.Error("connection errors should wrap ErrNetwork")
	}
	if IsRetryable(retryable(context.Canceled)) {
		t.Error("cancellation must not be retried")
	}
}
