package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"driveindex/internal/catalog"
	"driveindex/internal/classify"
	"driveindex/internal/config"
	"driveindex/internal/logging"
	"driveindex/internal/normalize"
	"driveindex/internal/parse"
	"driveindex/internal/record"
	"driveindex/internal/registry"
	"driveindex/internal/score"
	"driveindex/internal/walker"
)

// Pipeline drives one full indexing pass: load registry, walk the drive tree,
// build a record per video file, upsert the batch, persist run stats and the
// quality report.
type Pipeline struct {
	cfg    *config.Config
	store  *catalog.Store
	source walker.Source
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock
}

// Summary is what a completed run hands back to the CLI.
type Summary struct {
	RunID  string
	Stats  catalog.RunStats
	Walk   walker.Stats
	Upsert catalog.UpsertResult
	Report catalog.QualityReport
}

// New constructs a pipeline with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, source walker.Source, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil || store == nil || source == nil || logger == nil {
		return nil, fmt.Errorf("pipeline requires config, store, source, and logger")
	}
	if cfg.Drive.RootFolderID == "" {
		return nil, fmt.Errorf("%w: drive root_folder_id is required", ErrConfiguration)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "driveindex.lock")
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		source:   source,
		logger:   logging.WithComponent(logger, "pipeline"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the run lock file location.
func (p *Pipeline) LockPath() string {
	return p.lockPath
}

// Run executes one indexing pass. Two concurrent runs over the same data
// directory are prevented by a file lock; the second caller gets ErrLocked.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	ok, err := p.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, p.lockPath)
	}
	defer func() {
		_ = p.lock.Unlock()
	}()

	reg := p.loadRegistry()
	started := time.Now().UTC()

	var records []record.Session
	w := walker.New(p.source, p.logger)
	walkStats, err := w.Walk(ctx, p.cfg.Drive.RootFolderID, func(file walker.Entry, folderPath string) error {
		records = append(records, p.buildRecord(reg, file, folderPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk drive tree: %w", err)
	}

	upsert, err := p.store.UpsertBatch(ctx, records, p.cfg.Indexing.BatchSize, p.logger)
	if err != nil {
		return nil, fmt.Errorf("upsert sessions: %w", err)
	}

	stats := catalog.RunStats{
		StartedAt:        started,
		FinishedAt:       time.Now().UTC(),
		Scanned:          walkStats.FilesYielded,
		New:              upsert.New,
		Updated:          upsert.Updated,
		Errors:           upsert.Errors,
		Skipped:          walkStats.FilesSkipped,
		ArchivedSkipped:  walkStats.ArchivedSkipped,
		ListingFailures:  walkStats.ListingFailures,
		NeedsReviewCount: upsert.NeedsReview,
	}
	runID, err := p.store.InsertRunStats(ctx, stats)
	if err != nil {
		return nil, fmt.Errorf("persist run stats: %w", err)
	}
	stats.RunID = runID

	report := catalog.BuildQualityReport(records, p.cfg.Indexing.ReviewListCap)
	if _, err := p.store.InsertQualityReport(ctx, runID, report); err != nil {
		return nil, fmt.Errorf("persist quality report: %w", err)
	}

	p.logger.Info("indexing run complete",
		logging.String("run_id", runID),
		logging.Int("scanned", stats.Scanned),
		logging.Int("new", stats.New),
		logging.Int("updated", stats.Updated),
		logging.Int("errors", stats.Errors),
		logging.Int("needs_review", stats.NeedsReviewCount),
		logging.Duration("elapsed", stats.Duration()))

	return &Summary{
		RunID:  runID,
		Stats:  stats,
		Walk:   walkStats,
		Upsert: upsert,
		Report: report,
	}, nil
}

// loadRegistry reads the patch file and builds the registry. A broken patch
// file degrades to built-ins only; it never aborts the run.
func (p *Pipeline) loadRegistry() *registry.Registry {
	patches, err := registry.LoadPatchFile(p.cfg.Paths.PatchFile)
	if err != nil {
		p.logger.Warn("patch file unreadable, continuing with built-in rules",
			logging.String("path", p.cfg.Paths.PatchFile),
			logging.Error(err))
		patches = nil
	}
	return registry.Load(patches, p.logger)
}

// buildRecord runs the per-file extraction chain. A panic anywhere in the
// chain degrades to a fallback record flagged for review; no single file can
// abort the run.
func (p *Pipeline) buildRecord(reg *registry.Registry, file walker.Entry, folderPath string) (session record.Session) {
	now := time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("record build failed, writing fallback",
				logging.String("file", file.Name),
				logging.Any("cause", r))
			session = record.Fallback(file, folderPath, fmt.Errorf("%v", r), now)
		}
	}()

	ext, sc := Extract(reg, file.Name, folderPath)
	return record.Build(file, folderPath, ext, sc, now)
}

// Extract runs the full per-file chain: parse, normalize, classify, score.
// The offline test command uses it directly, without building records.
func Extract(reg *registry.Registry, filename, folderPath string) (parse.Extraction, score.Result) {
	ext := parse.Parse(reg, filename, folderPath)

	// Sentinel fields skip normalization so the correction table never
	// re-maps the unknown markers themselves.
	if ext.Coach == parse.UnknownCoach {
		ext.CoachNorm = parse.UnknownCoach
	} else {
		ext.CoachNorm = normalize.Coach(reg, ext.Coach)
	}
	if ext.Student == parse.UnknownStudent {
		ext.StudentNorm = parse.UnknownStudent
	} else {
		name, flagged := normalize.Student(reg, ext.Student)
		ext.StudentNorm = name
		if flagged {
			ext.ReviewHints = append(ext.ReviewHints, "student name flagged by correction table")
		}
	}

	// Classification rules see the folder path too, so a generically named
	// recording under a Biomed/ or Crisis Support/ branch still gets labeled.
	classifyText := filename + " " + folderPath
	ext.SessionType = classify.SessionType(reg, classifyText)
	ext.Subjects = classify.Subjects(reg, classifyText)

	return ext, score.Score(&ext)
}
