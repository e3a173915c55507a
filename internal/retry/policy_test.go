package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Belphemur/ChannelSubs/internal/apperrors"
	"github.com/Belphemur/ChannelSubs/internal/config"
)

func networkErr() error {
	return &apperrors.ErrNetwork{URL: "http://api/video", Err: errors.New("connection reset")}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), Policy{MaxAttempts: 5, Delay: time.Millisecond}, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", networkErr()
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected ok, got %q", got)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{MaxAttempts: 4, Delay: time.Millisecond}, func(ctx context.Context) (int, error) {
		calls++
		return 0, networkErr()
	})

	if calls != 4 {
		t.Errorf("Expected 4 calls, got %d", calls)
	}

	var exhausted *apperrors.ErrRetriesExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected ErrRetriesExhausted, got %v", err)
	}
	if exhausted.Attempts != 4 {
		t.Errorf("Expected 4 attempts recorded, got %d", exhausted.Attempts)
	}
	if !errors.Is(err, &apperrors.ErrNetwork{}) {
		t.Error("Expected the last network error to be reachable")
	}
}

func TestDo_TerminalErrorIsNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{MaxAttempts: 10, Delay: time.Millisecond}, func(ctx context.Context) (int, error) {
		calls++
		return 0, &apperrors.ErrServerResponse{URL: "u", StatusCode: 403}
	})

	if calls != 1 {
		t.Errorf("Expected a single call, got %d", calls)
	}
	if !errors.Is(err, &apperrors.ErrServerResponse{}) {
		t.Errorf("Expected ErrServerResponse, got %v", err)
	}
	if errors.Is(err, &apperrors.ErrRetriesExhausted{}) {
		t.Error("Terminal error must not be reported as exhausted retries")
	}
}

func TestDo_PlainErrorIsNotRetried(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := Do(context.Background(), Policy{MaxAttempts: 3}, func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	})

	if calls != 1 {
		t.Errorf("Expected a single call, got %d", calls)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, networkErr()
	})

	if calls != 1 {
		t.Errorf("Expected a single call, got %d", calls)
	}
	if !errors.Is(err, &apperrors.ErrRetriesExhausted{}) {
		t.Errorf("Expected ErrRetriesExhausted, got %v", err)
	}
}

func TestDo_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 10, Delay: time.Hour}, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, networkErr()
	})

	if calls != 1 {
		t.Errorf("Expected a single call, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Retry.Amount = 6
	cfg.Retry.Delay = "2s"

	p := PolicyFromConfig(cfg)
	if p.MaxAttempts != 6 || p.Delay != 2*time.Second {
		t.Errorf("Unexpected policy %+v", p)
	}
}
