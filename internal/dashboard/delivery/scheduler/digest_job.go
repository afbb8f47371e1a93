package scheduler

import (
	"context"
	"fmt"
	"time"

	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"

	"github.com/robfig/cron/v3"
)

const digestTimeout = 30 * time.Second

// DigestJob sends the portfolio digest on a cron schedule.
type DigestJob struct {
	cron     *cron.Cron
	schedule cron.Schedule
	digest   service.DigestService
	logger   *logger.Logger
}

// NewDigestJob parses a five-field cron expression (descriptors such as @daily
// are accepted) evaluated in loc.
func NewDigestJob(spec string, loc *time.Location, digest service.DigestService, logger *logger.Logger) (*DigestJob, error) {
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}

	j := &DigestJob{
		cron:     cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		schedule: schedule,
		digest:   digest,
		logger:   logger,
	}
	j.cron.Schedule(schedule, cron.FuncJob(func() { j.Run(context.Background()) }))
	return j, nil
}

// Start runs the schedule in the background.
func (j *DigestJob) Start() {
	j.cron.Start()
	j.logger.Info("Portfolio digest scheduled", logger.Field("next", j.cron.Entries()[0].Next))
}

// Stop halts the schedule and waits for a running digest until ctx is done.
func (j *DigestJob) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.logger.Info("Digest job still running at shutdown")
	}
}

// Next reports when the digest fires after t.
func (j *DigestJob) Next(t time.Time) time.Time {
	return j.schedule.Next(t)
}

// Run sends one digest.
func (j *DigestJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, digestTimeout)
	defer cancel()

	start := time.Now()
	if err := j.digest.Send(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Failed to send portfolio digest", logger.ErrorField(err))
		return
	}
	j.logger.InfoContext(ctx, "Portfolio digest sent", logger.Field("duration", time.Since(start)))
}
