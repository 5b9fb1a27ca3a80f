// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package jobs runs the storefront's background maintenance on a cron
// schedule. Jobs only ever read the catalog.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
)

// Job names, used in logs and metrics.
const (
	JobSessionSweep    = "session-sweep"
	JobCatalogSnapshot = "catalog-snapshot"
	JobCatalogGauge    = "catalog-gauge"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Catalog is the read-only view of the product list jobs need.
type Catalog interface {
	List() []models.Product
	Len() int
}

// Snapshots stores catalog backups.
type Snapshots interface {
	SaveSnapshot(ctx context.Context, products []models.Product) error
}

// Recorder receives job outcomes. Implemented by metrics.Metrics.
type Recorder interface {
	JobRun(job string, err error)
	SetProducts(n int)
}

// Config holds the cron specs. An empty spec disables that job.
type Config struct {
	Location     *time.Location
	SweepSpec    string
	SnapshotSpec string
	GaugeSpec    string
	Timeout      time.Duration
}

// DefaultConfig sweeps every ten minutes, snapshots daily and refreshes
// gauges every 30 seconds.
func DefaultConfig() Config {
	return Config{
		Location:     time.Local,
		SweepSpec:    "@every 10m",
		SnapshotSpec: "@daily",
		GaugeSpec:    "@every 30s",
		Timeout:      time.Minute,
	}
}

// Scheduler wires the jobs to a cron instance.
type Scheduler struct {
	cron      *cron.Cron
	cfg       Config
	sweeper   kvstore.Sweeper
	catalog   Catalog
	snapshots Snapshots
	rec       Recorder
}

// New registers the configured jobs. sweeper may be nil for stores that
// expire keys themselves; the sweep job is then skipped.
func New(cfg Config, sweeper kvstore.Sweeper, catalog Catalog, snapshots Snapshots, rec Recorder) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(cfg.Location), cron.WithParser(cronParser)),
		cfg:       cfg,
		sweeper:   sweeper,
		catalog:   catalog,
		snapshots: snapshots,
		rec:       rec,
	}

	if sweeper != nil {
		if err := s.add(cfg.SweepSpec, JobSessionSweep, s.SweepSessions); err != nil {
			return nil, err
		}
	}
	if err := s.add(cfg.SnapshotSpec, JobCatalogSnapshot, s.SnapshotCatalog); err != nil {
		return nil, err
	}
	if err := s.add(cfg.GaugeSpec, JobCatalogGauge, s.RefreshGauges); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) add(spec, name string, fn func(context.Context) error) error {
	if spec == "" {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() { s.run(name, fn) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	slog.Info("job scheduled", "job", name, "spec", spec)
	return nil
}

// run executes one job with a timeout, recovering from panics.
func (s *Scheduler) run(name string, fn func(context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("job panic", "job", name, "panic", rec)
			s.rec.JobRun(name, fmt.Errorf("panic: %v", rec))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	s.rec.JobRun(name, err)
	if err != nil {
		slog.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("job done", "job", name, "duration", time.Since(start))
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
	return nil
}

// Entries returns the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// SweepSessions deletes expired sessions from stores that need it.
func (s *Scheduler) SweepSessions(ctx context.Context) error {
	if s.sweeper == nil {
		return nil
	}
	n, err := s.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep sessions: %w", err)
	}
	if n > 0 {
		slog.Info("expired entries swept", "count", n)
	}
	return nil
}

// SnapshotCatalog writes a backup copy of the product list.
func (s *Scheduler) SnapshotCatalog(ctx context.Context) error {
	products := s.catalog.List()
	if err := s.snapshots.SaveSnapshot(ctx, products); err != nil {
		return fmt.Errorf("snapshot catalog: %w", err)
	}
	slog.Info("catalog snapshot saved", "products", len(products))
	return nil
}

// RefreshGauges publishes the product count.
func (s *Scheduler) RefreshGauges(context.Context) error {
	s.rec.SetProducts(s.catalog.Len())
	return nil
}
