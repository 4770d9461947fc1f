package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/camerodev/wabridge/internal/blocklist_service/domain"
)

var sweepCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "blocklist",
		Name:      "sweeps_total",
		Help:      "Total number of block/unblock sweeps executed.",
	},
	[]string{"action", "status"}, // action: "block"/"unblock"; status: "success", "partial_error"
)

// SchedulerConfig holds the cron specs and pacing for the block/unblock
// sweeps. Times follow the configured location.
type SchedulerConfig struct {
	Timezone       string
	UnblockMorning string
	BlockNoon      string
	UnblockEvening string
	BlockNight     string
	PacePerContact time.Duration
}

// Scheduler runs the periodic block/unblock sweeps. It shares the session
// handle and block-list file with the rest of the process but only ever
// reaches them through their interfaces; there is no coordination with
// in-flight message processing, and none is needed.
type Scheduler struct {
	repo    domain.BlocklistRepository
	session domain.ContactBlocker
	cron    *cron.Cron
	config  SchedulerConfig
	logger  *slog.Logger
}

// NewScheduler creates the Scheduler. The timezone must name a valid IANA
// location.
func NewScheduler(repo domain.BlocklistRepository, session domain.ContactBlocker, config SchedulerConfig, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", config.Timezone, err)
	}
	return &Scheduler{
		repo:    repo,
		session: session,
		cron:    cron.New(cron.WithLocation(loc)),
		config:  config,
		logger:  logger.With("component", "blocklist_scheduler"),
	}, nil
}

// Start registers the four sweeps, performs the initial unblock, and
// starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	entries := []struct {
		spec   string
		action string
		run    func(context.Context)
	}{
		{s.config.UnblockMorning, "unblock", s.UnblockAll},
		{s.config.BlockNoon, "block", s.BlockAll},
		{s.config.UnblockEvening, "unblock", s.UnblockAll},
		{s.config.BlockNight, "block", s.BlockAll},
	}
	for _, e := range entries {
		e := e
		if _, err := s.cron.AddFunc(e.spec, func() {
			s.logger.Info("Scheduled sweep starting", "action", e.action, "spec", e.spec)
			e.run(ctx)
		}); err != nil {
			return fmt.Errorf("register %s schedule %q: %w", e.action, e.spec, err)
		}
	}

	// Contacts start the day unblocked, as the session did on ready.
	s.logger.Info("Running initial unblock sweep")
	s.UnblockAll(ctx)

	s.cron.Start()
	s.logger.Info("Block/unblock schedules registered",
		"timezone", s.config.Timezone,
		"unblock_morning", s.config.UnblockMorning,
		"block_noon", s.config.BlockNoon,
		"unblock_evening", s.config.UnblockEvening,
		"block_night", s.config.BlockNight,
	)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

// BlockAll blocks every listed contact. Per-contact failures are logged
// and the sweep continues.
func (s *Scheduler) BlockAll(ctx context.Context) {
	s.sweep(ctx, "block", s.session.Block)
}

// UnblockAll unblocks every listed contact.
func (s *Scheduler) UnblockAll(ctx context.Context) {
	s.sweep(ctx, "unblock", s.session.Unblock)
}

func (s *Scheduler) sweep(ctx context.Context, action string, op func(context.Context, string) error) {
	contacts, err := s.repo.All(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load block list", "action", action, "error", err)
		sweepCounter.WithLabelValues(action, "partial_error").Inc()
		return
	}

	failed := 0
	for i, contact := range contacts {
		if err := op(ctx, contact.ChatID); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "Contact sweep operation failed",
				"action", action, "name", contact.Name, "chat_id", contact.ChatID, "error", err)
		} else {
			s.logger.InfoContext(ctx, "Contact sweep operation done",
				"action", action, "name", contact.Name, "chat_id", contact.ChatID)
		}

		// The session transport throttles contact mutations; pace the
		// sweep instead of hammering it.
		if i < len(contacts)-1 && s.config.PacePerContact > 0 {
			select {
			case <-time.After(s.config.PacePerContact):
			case <-ctx.Done():
				return
			}
		}
	}

	status := "success"
	if failed > 0 {
		status = "partial_error"
	}
	sweepCounter.WithLabelValues(action, status).Inc()
	s.logger.InfoContext(ctx, "Sweep finished", "action", action, "contacts", len(contacts), "failed", failed)
}
