package monitoring

import (
	"fmt"
	"regexp"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/xeniter/romygo/config"
	coremon "github.com/xeniter/romygo/core/monitoring"
)

// passRe matches the interface password in unlock request URLs. Errors from
// the robot client may embed the full URL, so reports are scrubbed before
// they leave the process.
var passRe = regexp.MustCompile(`pass=[^&"' ]*`)

func scrub(s string) string {
	return passRe.ReplaceAllString(s, "pass=********")
}

func scrubEvent(event *sentry.Event) *sentry.Event {
	event.Message = scrub(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = scrub(event.Exception[i].Value)
	}
	return event
}

// NewSentryMonitor initializes Sentry using the provided configuration and
// returns a Monitor implementation. An empty DSN disables reporting.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	opts := sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: cfg.TracesSampleRate,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrubEvent(event)
		},
	}
	if err := sentry.Init(opts); err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return &sentryMonitor{}, nil
}

type sentryMonitor struct{}

func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

func (s *sentryMonitor) Flush(timeout time.Duration) { sentry.Flush(timeout) }
