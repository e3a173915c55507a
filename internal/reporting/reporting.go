// Package reporting forwards abandoned videos to Sentry when a DSN is configured.
package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/ChannelSubs/internal/config"
)

// Reporter receives failures that made a video be skipped or fail.
type Reporter interface {
	Report(err error, tags map[string]string)
	Flush(timeout time.Duration) bool
}

// New returns a Sentry backed reporter, or a no-op one when no DSN is configured.
func New(cfg *config.Config, release string) (Reporter, error) {
	if cfg.Sentry.DSN == "" {
		return Nop{}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     release,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	return sentryReporter{}, nil
}

// Nop discards every report.
type Nop struct{}

func (Nop) Report(error, map[string]string) {}

func (Nop) Flush(time.Duration) bool { return true }

type sentryReporter struct{}

func (sentryReporter) Report(err error, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

func (sentryReporter) Flush(timeout time.Duration) bool {
	ok := sentry.Flush(timeout)
	if !ok {
		logger := config.GetLogger()
		logger.Warn().Dur("timeout", timeout).Msg("Timed out flushing error reports")
	}
	return ok
}
