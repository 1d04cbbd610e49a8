// File: internal/jobs/request_prune.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"voluntr_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RequestPruner deletes decided friend requests older than a cutoff.
type RequestPruner interface {
	PruneDecidedRequests(ctx context.Context, cutoff time.Time) (int64, error)
}

// RequestPruneJob periodically deletes accepted and rejected friend requests
// once they are older than the configured retention.
type RequestPruneJob struct {
	pruner        RequestPruner
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
	now           func() time.Time
}

// NewRequestPruneJob creates a new RequestPruneJob.
func NewRequestPruneJob(pruner RequestPruner, logger *zap.Logger, cfg *config.Config) *RequestPruneJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)

	return &RequestPruneJob{
		pruner:        pruner,
		logger:        logger.Named("RequestPruneJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetupAndStart schedules and starts the cron job. A zero retention or an
// empty schedule leaves the job disabled.
func (j *RequestPruneJob) SetupAndStart() error {
	if j.cfg.RequestHistoryRetentionDays <= 0 {
		j.logger.Info("Request history retention is unlimited (REQUEST_HISTORY_RETENTION_DAYS=0). Prune job will not run.")
		return nil
	}
	jobSpec := j.cfg.RequestPruneJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Request prune job schedule not defined (REQUEST_PRUNE_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule request prune job", zap.String("spec", jobSpec), zap.Error(err))
		return fmt.Errorf("scheduling request prune job %q: %w", jobSpec, err)
	}

	j.logger.Info("Request prune job scheduled",
		zap.String("spec", jobSpec),
		zap.Any("jobID", jobID),
		zap.Int("retention_days", j.cfg.RequestHistoryRetentionDays),
	)
	j.cronScheduler.Start()
	return nil
}

// cutoff is the decision time before which requests are pruned.
func (j *RequestPruneJob) cutoff() time.Time {
	return j.now().AddDate(0, 0, -j.cfg.RequestHistoryRetentionDays)
}

func (j *RequestPruneJob) runJob() {
	j.logger.Info("Starting request prune job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := j.cutoff()
	deleted, err := j.pruner.PruneDecidedRequests(ctx, cutoff)
	if err != nil {
		j.logger.Error("Request prune job run failed", zap.Error(err))
		return
	}
	j.logger.Info("Request prune job run completed", zap.Int64("requests_deleted", deleted), zap.Time("cutoff", cutoff))
}

// Stop gracefully stops the cron scheduler.
func (j *RequestPruneJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping request prune job scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Request prune job scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Request prune job scheduler stop timed out.")
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron at debug level; cron reports every wake-up.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Debug(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, "MISSING_VALUE"))
		}
	}
	return fields
}
