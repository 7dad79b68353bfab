package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisRateLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisRateLimiter
		if !l.Allow(ctx, "10.0.0.1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := newRedisRateLimiter(&mockRedisEvaler{result: 1}, time.Minute, 3, zap.NewNop())
		if l.Allow(ctx, "   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newRedisRateLimiter(mock, 2*time.Minute, 3, zap.NewNop())
		if !l.Allow(ctx, " Sub:Shelter-7 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "pets:rl:sub:shelter-7" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := newRedisRateLimiter(&mockRedisEvaler{result: 4}, time.Minute, 3, zap.NewNop())
		if l.Allow(ctx, "10.0.0.1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newRedisRateLimiter(&mockRedisEvaler{err: errors.New("redis down")}, time.Minute, 3, zap.NewNop())
		if !l.Allow(ctx, "10.0.0.1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestNewRedisRateLimiter_Disabled(t *testing.T) {
	if l := NewRedisRateLimiter(nil, time.Minute, 10, nil); l != nil {
		t.Fatalf("expected nil limiter without client")
	}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	if l := NewRedisRateLimiter(client, time.Minute, 0, nil); l != nil {
		t.Fatalf("expected nil limiter when max is zero")
	}
}
