package misskey

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"rssDigestBot/internal/domain/entity"
)

// timer slack tolerated when measuring refill waits
const slack = 10 * time.Millisecond

func newCountingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newPacedNotifier(t *testing.T, serverURL string, maxPermits int, refillInterval time.Duration) *notifier {
	t.Helper()
	repo, err := NewNotifier(Config{
		Host:           serverURL,
		AuthToken:      "test-token",
		MaxPermits:     maxPermits,
		RefillInterval: refillInterval,
	})
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}
	return repo.(*notifier)
}

func TestNotifier_RateLimit_BurstIsImmediate(t *testing.T) {
	server, calls := newCountingServer(t)
	n := newPacedNotifier(t, server.URL, 3, 10*time.Second)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := n.Send(context.Background(), entity.NewMessage("note")); err != nil {
			t.Fatalf("unexpected error on request %d: %v", i+1, err)
		}
	}
	elapsed := time.Since(start)

	if elapsed > 100*time.Millisecond {
		t.Errorf("expected immediate execution within 100ms, took %v", elapsed)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 posts, got %d", got)
	}
}

func TestNotifier_RateLimit_WaitsForRefill(t *testing.T) {
	server, _ := newCountingServer(t)
	refillInterval := 100 * time.Millisecond
	n := newPacedNotifier(t, server.URL, 1, refillInterval)

	if err := n.Send(context.Background(), entity.NewMessage("first")); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	start := time.Now()
	if err := n.Send(context.Background(), entity.NewMessage("second")); err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < refillInterval-slack {
		t.Errorf("expected to wait about %v, only waited %v", refillInterval, elapsed)
	}
	if elapsed > refillInterval+100*time.Millisecond {
		t.Errorf("waited too long: %v (expected ~%v)", elapsed, refillInterval)
	}
}

func TestNotifier_RateLimit_CancelWhileWaiting(t *testing.T) {
	server, calls := newCountingServer(t)
	n := newPacedNotifier(t, server.URL, 1, 10*time.Second)

	if err := n.Send(context.Background(), entity.NewMessage("first")); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := n.Send(ctx, entity.NewMessage("second"))
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
	if elapsed > 200*time.Millisecond {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected the cancelled note not to be posted, got %d posts", got)
	}
}

func TestNotifier_RateLimit_ConcurrentSends(t *testing.T) {
	server, calls := newCountingServer(t)
	maxPermits := 5
	n := newPacedNotifier(t, server.URL, maxPermits, 50*time.Millisecond)

	const numGoroutines = 10
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)
	start := time.Now()

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := n.Send(context.Background(), entity.NewMessage("note")); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	elapsed := time.Since(start)

	for err := range errs {
		t.Errorf("unexpected error from goroutine: %v", err)
	}

	// 5 extra permits at one per 50ms
	expectedMinDuration := 5*50*time.Millisecond - slack
	if elapsed < expectedMinDuration {
		t.Errorf("expected at least %v for token refill, got %v", expectedMinDuration, elapsed)
	}
	if got := calls.Load(); got != numGoroutines {
		t.Errorf("expected %d posts, got %d", numGoroutines, got)
	}
}

func TestNewNotifier_RateLimitDefaults(t *testing.T) {
	n := newPacedNotifier(t, "misskey.io", 0, 0)

	if got := n.rateLimiter.Burst(); got != 3 {
		t.Errorf("expected default burst 3, got %d", got)
	}
	if got, want := n.rateLimiter.Limit(), rate.Every(10*time.Second); got != want {
		t.Errorf("expected default limit %v, got %v", want, got)
	}
}
