// Package tracker drives one full update cycle: fetch every tracked race,
// diff against the prior snapshot, and write the output files.
//
// Execution is strictly sequential. One race is fetched and recorded before
// the next begins, with a configurable politeness delay in between; the
// delay protects the source site, not correctness. A file lock guards
// against overlapping invocations so there is exactly one writer.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"peloton/internal/changelog"
	"peloton/internal/config"
	"peloton/internal/diff"
	"peloton/internal/history"
	"peloton/internal/logging"
	"peloton/internal/matrix"
	"peloton/internal/registry"
	"peloton/internal/roster"
	"peloton/internal/snapshot"
	"peloton/internal/viewer"
)

// ErrAlreadyRunning indicates another update holds the lock.
var ErrAlreadyRunning = errors.New("another update is already running")

// Tracker wires the fetcher, stores, and writers for update runs.
type Tracker struct {
	cfg     *config.Config
	reg     *registry.Registry
	fetcher roster.Fetcher
	store   *snapshot.Store
	changes *changelog.Writer
	hist    *history.Store
	logger  *slog.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithHistory enables recording runs in the history database.
func WithHistory(store *history.Store) Option {
	return func(t *Tracker) { t.hist = store }
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithSleep overrides the inter-fetch delay function.
func WithSleep(sleep func(time.Duration)) Option {
	return func(t *Tracker) {
		if sleep != nil {
			t.sleep = sleep
		}
	}
}

// New constructs a tracker.
func New(cfg *config.Config, reg *registry.Registry, fetcher roster.Fetcher, logger *slog.Logger, opts ...Option) (*Tracker, error) {
	if cfg == nil || reg == nil || fetcher == nil {
		return nil, errors.New("tracker requires config, registry, and fetcher")
	}

	t := &Tracker{
		cfg:     cfg,
		reg:     reg,
		fetcher: fetcher,
		store:   snapshot.NewStore(cfg.SnapshotPath(), logger),
		changes: changelog.NewWriter(cfg.ChangesPath(), logger),
		logger:  logging.NewComponentLogger(logger, "tracker"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// RunOptions adjust a single update cycle.
type RunOptions struct {
	// DryRun fetches and diffs but writes nothing.
	DryRun bool
	// SkipViewer suppresses the HTML viewer output.
	SkipViewer bool
}

// Summary describes a completed update cycle.
type Summary struct {
	RunID        string
	RacesFetched int
	Riders       int
	Events       []diff.ChangeEvent
	Duration     time.Duration
}

// Run executes one update cycle.
func (t *Tracker) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	started := t.now()
	runID := uuid.NewString()
	logger := t.logger.With(logging.String("run_id", runID))

	if !opts.DryRun {
		lock := flock.New(t.cfg.LockPath())
		locked, err := lock.TryLock()
		if err != nil {
			return Summary{}, fmt.Errorf("acquire update lock: %w", err)
		}
		if !locked {
			return Summary{}, ErrAlreadyRunning
		}
		defer func() { _ = lock.Unlock() }()
	}

	prev, err := t.store.Load()
	if err != nil {
		return Summary{}, err
	}
	if dropped := prev.PruneUnknownRaces(t.reg); dropped > 0 {
		logger.Warn("dropped stale snapshot memberships",
			logging.Int("memberships", dropped))
	}

	fetched, racesFetched := t.fetchAll(ctx, logger)

	events, next := diff.Compute(prev, fetched, t.reg, t.now())
	if prev.RiderCount() == 0 && next.RiderCount() > 0 {
		logger.Info("first run, populating snapshot without events",
			logging.Int("riders", next.RiderCount()))
	}

	summary := Summary{
		RunID:        runID,
		RacesFetched: racesFetched,
		Riders:       next.RiderCount(),
		Events:       events,
	}

	if opts.DryRun {
		summary.Duration = t.now().Sub(started)
		logger.Info("dry run complete",
			logging.Int("events", len(events)),
			logging.Int("riders", summary.Riders))
		return summary, nil
	}

	if err := t.changes.Append(events); err != nil {
		return Summary{}, err
	}

	rows := matrix.Build(next, t.reg)
	if err := matrix.WriteFile(t.cfg.MatrixPath(), rows, t.reg); err != nil {
		return Summary{}, fmt.Errorf("write matrix: %w", err)
	}

	if !opts.SkipViewer {
		if err := viewer.WriteFile(t.cfg.ViewerPath(), rows, t.reg, t.now()); err != nil {
			return Summary{}, fmt.Errorf("write viewer: %w", err)
		}
	}

	// The snapshot is replaced last so a failed run never advances state.
	if err := t.store.Save(next); err != nil {
		return Summary{}, err
	}

	summary.Duration = t.now().Sub(started)

	if t.hist != nil {
		run := history.Run{
			ID:           runID,
			StartedAt:    started,
			FinishedAt:   t.now(),
			RacesFetched: racesFetched,
			Riders:       summary.Riders,
			Events:       len(events),
		}
		if err := t.hist.RecordRun(ctx, run, events); err != nil {
			return Summary{}, fmt.Errorf("record history: %w", err)
		}
	}

	logger.Info("update complete",
		logging.Int("races_fetched", racesFetched),
		logging.Int("riders", summary.Riders),
		logging.Int("events", len(events)),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

// fetchAll fetches every race in registry order. A failed or empty fetch
// logs a warning and leaves an empty roster; it never aborts the run.
func (t *Tracker) fetchAll(ctx context.Context, logger *slog.Logger) (map[string][]roster.Rider, int) {
	fetched := make(map[string][]roster.Rider, t.reg.Len())
	racesFetched := 0

	for i, race := range t.reg.Races() {
		if i > 0 && t.cfg.FetchDelay() > 0 {
			t.sleep(t.cfg.FetchDelay())
		}

		riders, err := t.fetcher.FetchStartlist(ctx, race)
		if err != nil {
			logger.Warn("startlist fetch failed, treating as unavailable",
				logging.String("race", race.ID),
				logging.Error(err))
			fetched[race.ID] = nil
			continue
		}
		if len(riders) == 0 {
			logger.Info("startlist empty or not yet published",
				logging.String("race", race.ID))
			fetched[race.ID] = nil
			continue
		}

		logger.Debug("fetched startlist",
			logging.String("race", race.ID),
			logging.Int("riders", len(riders)))
		fetched[race.ID] = riders
		racesFetched++
	}

	return fetched, racesFetched
}
