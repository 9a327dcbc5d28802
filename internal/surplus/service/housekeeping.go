package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/metrics"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
)

// UnactivatedRetention is how long a never-activated account is kept.
const UnactivatedRetention = 3 * 24 * time.Hour

// HousekeepingService periodically expires overdue listings and, when
// activation is required, removes accounts that were never activated.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration

	PurgeUnactivated bool
	Now              func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress run has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run immediately on startup
	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs one cleanup pass. Each task is independent; a failure
// in one does not stop the others.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	if s.Logger != nil {
		ctx = slogx.WithContext(ctx, s.Logger)
	}
	ctx = slogx.WithRequestID(ctx, idx.New().String())
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	var succeeded int

	n, err := s.Store.Listings().ExpireOverdue(ctx, now)
	if err != nil {
		l.Error("failed to expire overdue listings", "error", err)
	} else {
		l.Debug("expired overdue listings", "count", n)
		s.Metrics.HousekeepingChanged("expire_listings", n)
		succeeded++
	}

	if s.PurgeUnactivated {
		n, err := s.Store.Users().DeleteNotActivatedBefore(ctx, now.Add(-UnactivatedRetention))
		if err != nil {
			l.Error("failed to delete unactivated accounts", "error", err)
		} else {
			l.Debug("deleted unactivated accounts", "count", n)
			s.Metrics.HousekeepingChanged("purge_unactivated", n)
			succeeded++
		}
	}

	l.Info("housekeeping cleanup completed", "successful_cleanups", succeeded)
}
