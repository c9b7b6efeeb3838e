package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry wires error reporting when a DSN is configured. Without one the
// returned flush is a no-op, so jobs and handlers can call CaptureErr
// unconditionally.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr reports a non-nil error. Used on the paths that swallow errors
// to keep a job or listener alive.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
