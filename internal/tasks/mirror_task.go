package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Flusher retries whatever the mirror could not push.
type Flusher interface {
	Flush(ctx context.Context) error
	Pending() bool
}

// MirrorRetryTask flushes pending mirror snapshots on a cron schedule (with seconds).
type MirrorRetryTask struct {
	mirror   Flusher
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	log      *zap.Logger
}

func NewMirrorRetryTask(m Flusher, schedule string, lg *zap.Logger) *MirrorRetryTask {
	if lg == nil {
		lg = zap.NewNop()
	}
	if schedule == "" {
		schedule = "0 */5 * * * *"
	}
	return &MirrorRetryTask{
		mirror:   m,
		schedule: schedule,
		timeout:  2 * time.Minute,
		cron:     cron.New(cron.WithSeconds()),
		log:      lg,
	}
}

// Start registers the job and starts the scheduler.
func (t *MirrorRetryTask) Start() error {
	if _, err := t.cron.AddFunc(t.schedule, t.Run); err != nil {
		return err
	}
	t.cron.Start()
	t.log.Info("task.mirror_retry.start", zap.String("schedule", t.schedule))
	return nil
}

// Run is one tick: flush if something is pending.
func (t *MirrorRetryTask) Run() {
	if !t.mirror.Pending() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := t.mirror.Flush(ctx); err != nil {
		t.log.Warn("task.mirror_retry.failed", zap.Error(err))
		return
	}
	t.log.Info("task.mirror_retry.flushed")
}

// Stop waits for a running job to finish.
func (t *MirrorRetryTask) Stop() {
	<-t.cron.Stop().Done()
}
