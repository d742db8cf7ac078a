package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestLocker(t *testing.T) (Locker, *redis.Client) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisWindowLocker(client, 2*time.Second), client
}

func TestWithWindowLockRunsFunction(t *testing.T) {
	locker, _ := newTestLocker(t)

	psychID := uuid.New()
	start := time.Now().UTC()
	end := start.Add(time.Hour)

	ran := false
	err := locker.WithWindowLock(context.Background(), psychID, start, end, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("with window lock: %v", err)
	}
	if !ran {
		t.Fatal("expected critical section to run")
	}
}

func TestWithWindowLockContention(t *testing.T) {
	locker, _ := newTestLocker(t)

	psychID := uuid.New()
	start := time.Now().UTC()
	end := start.Add(time.Hour)

	err := locker.WithWindowLock(context.Background(), psychID, start, end, func(ctx context.Context) error {
		// The same window must be rejected while held.
		inner := locker.WithWindowLock(context.Background(), psychID, start, end, func(ctx context.Context) error {
			return nil
		})
		if !errors.Is(inner, ErrLockNotAcquired) {
			t.Fatalf("expected ErrLockNotAcquired, got %v", inner)
		}

		// A different window is independent.
		other := locker.WithWindowLock(context.Background(), psychID, end, end.Add(time.Hour), func(ctx context.Context) error {
			return nil
		})
		if other != nil {
			t.Fatalf("expected different window to lock, got %v", other)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with window lock: %v", err)
	}
}

func TestWithWindowLockReleasesOnReturn(t *testing.T) {
	locker, client := newTestLocker(t)

	psychID := uuid.New()
	start := time.Now().UTC()
	end := start.Add(time.Hour)

	wantErr := errors.New("boom")
	err := locker.WithWindowLock(context.Background(), psychID, start, end, func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected callback error, got %v", err)
	}

	keys, err := client.Keys(context.Background(), "lock:claim:*").Result()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected lock released, found keys %v", keys)
	}

	// The window is claimable again after the first attempt failed.
	err = locker.WithWindowLock(context.Background(), psychID, start, end, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("relock after release: %v", err)
	}
}
