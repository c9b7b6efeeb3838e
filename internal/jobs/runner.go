package jobs

import (
	"context"
	"time"

	"github.com/iplayapp/iplay-backend/internal/observability"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

// Runner schedules background jobs on cron expressions evaluated in a fixed
// location. A job still running when its next tick arrives is skipped.
type Runner struct {
	ctx  context.Context
	cron *cron.Cron
	log  *zap.SugaredLogger
}

func New(ctx context.Context, loc *time.Location, log *zap.SugaredLogger) *Runner {
	return &Runner{
		ctx: ctx,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		log: log,
	}
}

func (r *Runner) Schedule(spec, name string, fn Job) error {
	_, err := r.cron.AddFunc(spec, func() {
		start := time.Now()
		r.log.Infow("job started", "job", name)
		if err := fn(r.ctx); err != nil {
			jobErrors.WithLabelValues(name).Inc()
			observability.CaptureErr(err)
			r.log.Errorw("job failed", "job", name, "err", err)
		}
		jobRuns.WithLabelValues(name).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		r.log.Infow("job finished", "job", name, "took", time.Since(start))
	})
	return err
}

func (r *Runner) Start() { r.cron.Start() }

// Stop halts scheduling and waits for any in-flight job to return.
func (r *Runner) Stop() { <-r.cron.Stop().Done() }
