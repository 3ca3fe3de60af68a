package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/session"
)

// SessionPool is the part of session.Manager the sweeper drives.
type SessionPool interface {
	EvictIdle(maxIdle time.Duration) []string
	Active() int
	Len() int
	Storage() session.Storage
}

// ViewCache is the part of viewstate.Cache the sweeper prunes.
type ViewCache interface {
	ForgetSession(sessionID string)
	Sweep(now time.Time) int
}

// SweepMetrics receives housekeeping figures.
type SweepMetrics interface {
	SetActiveSessions(n int)
	RecordSweep(kind string, n int64)
}

// SweeperConfig schedules housekeeping.
type SweeperConfig struct {
	// Schedule is a cron expression or descriptor such as "@every 5m".
	Schedule string
	MaxIdle  time.Duration
}

// Sweeper evicts idle in-memory sessions with their cached views, drops
// stale views and purges expired durable sessions.
type Sweeper struct {
	cron    *cron.Cron
	pool    SessionPool
	views   ViewCache
	cfg     SweeperConfig
	metrics SweepMetrics
	logger  *zap.Logger
}

// NewSweeper builds a sweeper; call Start to schedule it. views may be nil.
func NewSweeper(pool SessionPool, views ViewCache, cfg SweeperConfig, metrics SweepMetrics, logger *zap.Logger) *Sweeper {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 5m"
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = 30 * time.Minute
	}
	return &Sweeper{
		cron:    cron.New(),
		pool:    pool,
		views:   views,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", zap.String("schedule", s.cfg.Schedule))
	return nil
}

// Stop waits for a running sweep, bounded by ctx.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("session sweeper did not stop in time")
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce performs one housekeeping pass.
func (s *Sweeper) RunOnce(ctx context.Context) {
	evicted := s.pool.EvictIdle(s.cfg.MaxIdle)

	var stale int
	if s.views != nil {
		for _, id := range evicted {
			s.views.ForgetSession(id)
		}
		stale = s.views.Sweep(time.Now())
	}

	var purged int64
	if purger, ok := s.pool.Storage().(session.Purger); ok {
		n, err := purger.PurgeExpired(ctx, time.Now())
		if err != nil {
			s.logger.Error("purge expired sessions failed", zap.Error(err))
		}
		purged = n
	}

	active := s.pool.Active()
	if s.metrics != nil {
		s.metrics.RecordSweep("idle", int64(len(evicted)))
		s.metrics.RecordSweep("stale_views", int64(stale))
		s.metrics.RecordSweep("expired", purged)
		s.metrics.SetActiveSessions(active)
	}
	if len(evicted) > 0 || stale > 0 || purged > 0 {
		s.logger.Info("session sweep",
			zap.Int("evicted_idle", len(evicted)),
			zap.Int("stale_views", stale),
			zap.Int64("purged_expired", purged),
			zap.Int("held", s.pool.Len()),
			zap.Int("active", active),
		)
	}
}
