package locks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func lockers(t *testing.T) map[string]Locker {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Locker{
		"local": NewLocalLocker(),
		"redis": NewRedisLocker(client, 5*time.Second),
	}
}

func TestLockerMutualExclusion(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			var inside, maxInside int32
			var wg sync.WaitGroup

			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release, err := l.Lock(context.Background(), "r1|v1|2025-03-12|07:00")
					if err != nil {
						t.Errorf("Lock() error = %v", err)
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					release()
				}()
			}
			wg.Wait()

			if maxInside != 1 {
				t.Errorf("max concurrent holders = %d, want 1", maxInside)
			}
		})
	}
}

func TestLockerIndependentKeys(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			releaseA, err := l.Lock(context.Background(), "a")
			if err != nil {
				t.Fatalf("Lock(a) error = %v", err)
			}
			defer releaseA()

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			releaseB, err := l.Lock(ctx, "b")
			if err != nil {
				t.Fatalf("Lock(b) error = %v", err)
			}
			releaseB()
		})
	}
}

func TestLockerHonoursContext(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			release, err := l.Lock(context.Background(), "busy")
			if err != nil {
				t.Fatalf("Lock() error = %v", err)
			}
			defer release()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			if _, err := l.Lock(ctx, "busy"); !errors.Is(err, ErrLockTimeout) {
				t.Fatalf("err = %v, want ErrLockTimeout", err)
			}
		})
	}
}

func TestLocalLockerForgetsReleasedKeys(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
	release()
	release()
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
}

func TestRedisLockerDoesNotReleaseForeignToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	l := NewRedisLocker(client, time.Second)

	release, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	// Simulate expiry and takeover by another instance.
	mr.Set("LOCK_DEPARTURE_k", "someone-else")
	release()

	got, err := mr.Get("LOCK_DEPARTURE_k")
	if err != nil || got != "someone-else" {
		t.Fatalf("foreign lock was removed: %q, %v", got, err)
	}
}
