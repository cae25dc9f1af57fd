// Package backup runs periodic store snapshots on a cron schedule.
package backup

import (
	"context"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/store"
)

// Scheduler snapshots the whole store on a cron schedule and prunes old
// snapshots beyond the retention count.
type Scheduler struct {
	kv       *store.Tiered
	logger   *logging.Logger
	schedule string
	keep     int
	cron     *cron.Cron
}

// New builds a scheduler. schedule is a standard 5-field cron expression;
// keep <= 0 disables pruning.
func New(kv *store.Tiered, logger *logging.Logger, schedule string, keep int) *Scheduler {
	return &Scheduler{
		kv:       kv,
		logger:   logger,
		schedule: schedule,
		keep:     keep,
		cron:     cron.New(),
	}
}

// Start registers the cron entry and begins running. Returns an error when
// the schedule expression does not parse.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.Run(context.Background())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.WithFields(map[string]interface{}{
		"schedule": s.schedule,
		"keep":     s.keep,
	}).Info("backup scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run takes one snapshot now and prunes to the retention count. Failures are
// logged, not returned: a missed backup must not take the service down.
func (s *Scheduler) Run(ctx context.Context) {
	start := time.Now()
	id, err := s.kv.CreateBackup(ctx)
	if err != nil {
		s.logger.WithError(err).Error("scheduled backup failed")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"backup":      id,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("scheduled backup complete")

	s.prune(ctx)
}

func (s *Scheduler) prune(ctx context.Context) {
	if s.keep <= 0 {
		return
	}

	ids := s.kv.ListBackups(ctx)
	if len(ids) <= s.keep {
		return
	}

	// Timestamped IDs sort chronologically.
	sort.Strings(ids)
	for _, id := range ids[:len(ids)-s.keep] {
		if err := s.kv.Delete(ctx, id); err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"backup": id,
			}).Warn("failed to prune backup")
			continue
		}
		s.logger.WithFields(map[string]interface{}{
			"backup": id,
		}).Debug("pruned backup")
	}
}
