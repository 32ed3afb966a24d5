// Package scheduler loads the initial catalog and runs the background jobs:
// the periodic catalog integrity audit and the idle-session sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/healthplans-api/interfaces"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/metrics"
	"github.com/giygas/healthplans-api/validation"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	defaultAuditInterval = time.Hour
	defaultSessionIdle   = 2 * time.Hour
	sweepInterval        = time.Minute
	loadTimeout          = 30 * time.Second
)

// Options tunes the job intervals. Zero values fall back to the defaults.
type Options struct {
	AuditInterval time.Duration
	SessionIdle   time.Duration
}

// Scheduler owns the gocron scheduler and its dependencies
type Scheduler struct {
	store     interfaces.CatalogStore
	loader    interfaces.CatalogLoader
	sessions  interfaces.SessionSweeper
	opts      Options
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler. sessions may be nil, in which case no
// sweep job is registered.
func NewScheduler(store interfaces.CatalogStore, loader interfaces.CatalogLoader, sessions interfaces.SessionSweeper, opts Options) *Scheduler {
	if opts.AuditInterval <= 0 {
		opts.AuditInterval = defaultAuditInterval
	}
	if opts.SessionIdle <= 0 {
		opts.SessionIdle = defaultSessionIdle
	}
	return &Scheduler{
		store:     store,
		loader:    loader,
		sessions:  sessions,
		opts:      opts,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start loads the catalog, audits it once and schedules the recurring jobs
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.loadCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}
	s.Audit()

	if _, err := s.scheduler.Every(s.opts.AuditInterval).WaitForSchedule().Do(func() {
		s.Audit()
	}); err != nil {
		logging.Error("Failed to schedule integrity audit", "error", err)
		return fmt.Errorf("failed to schedule integrity audit: %w", err)
	}

	if s.sessions != nil {
		if _, err := s.scheduler.Every(sweepInterval).WaitForSchedule().Do(func() {
			s.sessions.Sweep(s.opts.SessionIdle)
		}); err != nil {
			logging.Error("Failed to schedule session sweep", "error", err)
			return fmt.Errorf("failed to schedule session sweep: %w", err)
		}
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started",
		"audit_interval", s.opts.AuditInterval.String(),
		"session_idle", s.opts.SessionIdle.String(),
	)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) loadCatalog() error {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	start := time.Now()
	catalog, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	s.store.ReplaceCatalog(catalog)

	logging.Info("Catalog load completed",
		"duration", time.Since(start).String(),
		"plans", len(catalog.Plans),
		"version", s.store.Version(),
	)
	return nil
}

// Audit runs the integrity report on the current snapshot and logs each
// class of issue found.
func (s *Scheduler) Audit() *validation.IntegrityReport {
	report := validation.CheckIntegrity(s.store.Snapshot())
	metrics.IntegrityIssues.Set(float64(report.IssueCount()))

	if report.IssueCount() == 0 {
		logging.Debug("Catalog integrity audit clean", "version", s.store.Version())
		return report
	}

	if len(report.PlansWithUnknownCompany) > 0 {
		logging.Warn("Plans with unknown company",
			"count", len(report.PlansWithUnknownCompany),
			"plan_ids", report.PlansWithUnknownCompany,
		)
	}
	if len(report.DanglingMedicineRefs) > 0 {
		logging.Warn("Plans covering unknown medicines",
			"count", len(report.DanglingMedicineRefs),
			"refs", report.DanglingMedicineRefs,
		)
	}
	if len(report.DanglingBackupPlans) > 0 {
		logging.Warn("Plans with unknown backup plan",
			"count", len(report.DanglingBackupPlans),
			"plan_ids", report.DanglingBackupPlans,
		)
	}
	if len(report.BackupCycles) > 0 {
		logging.Warn("Backup plan cycles", "cycles", report.BackupCycles)
	}
	if len(report.DuplicateFilterKeys) > 0 {
		logging.Warn("Duplicate filter keys", "keys", report.DuplicateFilterKeys)
	}
	if len(report.UndefinedFilterKeys) > 0 {
		logging.Warn("Plan attributes without a filter definition", "refs", report.UndefinedFilterKeys)
	}
	if len(report.NonConformingValues) > 0 {
		logging.Warn("Plan attributes not matching their filter type",
			"count", len(report.NonConformingValues),
		)
	}
	if len(report.MedicinesWithUnknownCorp) > 0 {
		logging.Warn("Medicines referencing unknown companies", "refs", report.MedicinesWithUnknownCorp)
	}

	logging.Info("Catalog integrity audit completed",
		"issues", report.IssueCount(),
		"version", s.store.Version(),
	)
	return report
}
