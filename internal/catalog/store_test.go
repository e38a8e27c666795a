package catalog_test

import (
	"context"
	"testing"
	"time"

	"driveindex/internal/catalog"
	"driveindex/internal/logging"
	"driveindex/internal/record"
	"driveindex/internal/testsupport"
)

func sampleSession(fileID, coach, student string, confidence float64) record.Session {
	date := time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC)
	return record.Session{
		FileID:      fileID,
		Title:       coach + " & " + student + " - Week 39",
		Description: "Coaching session between " + coach + " and " + student,
		SessionInfo: record.SessionInfo{
			Type:            "regular",
			Date:            &date,
			Week:            "39",
			DurationMinutes: 45,
		},
		Participants: record.Participants{
			Coach:             coach,
			Student:           student,
			CoachNormalized:   coach,
			StudentNormalized: student,
		},
		Subjects: []string{"general"},
		Tags:     []string{coach, student, "regular"},
		Priority: record.PriorityNormal,
		DataQuality: record.DataQuality{
			HasCoach:   true,
			HasStudent: true,
			HasWeek:    true,
			HasDate:    true,
			Confidence: confidence,
		},
		FolderPath:  "/Coaches/" + coach + "/" + student,
		ParseMethod: "structured",
		IndexedAt:   time.Now().UTC(),
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if store.Path() == "" {
		t.Fatal("expected database path to be set")
	}
	count, err := store.SessionCount(context.Background())
	if err != nil {
		t.Fatalf("SessionCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty catalog, got %d sessions", count)
	}
}

func TestUpsertBatchInsertsAndUpdates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	logger := logging.NewNop()

	records := []record.Session{
		sampleSession("file-1", "Marissa", "Iqra", 1.0),
		sampleSession("file-2", "Andrew", "Advay", 0.875),
	}

	result, err := store.UpsertBatch(ctx, records, cfg.Indexing.BatchSize, logger)
	if err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}
	if result.New != 2 || result.Updated != 0 || result.Errors != 0 {
		t.Fatalf("unexpected first pass result: %+v", result)
	}

	first, err := store.FindByFileID(ctx, "file-1")
	if err != nil {
		t.Fatalf("FindByFileID: %v", err)
	}
	if first == nil {
		t.Fatal("expected file-1 to be stored")
	}
	if first.Coach != "Marissa" || first.Student != "Iqra" {
		t.Fatalf("unexpected participants: %+v", first)
	}

	// Second pass over the same files must update in place, not duplicate.
	records[0].Title = "Marissa & Iqra - Week 40"
	result, err = store.UpsertBatch(ctx, records, cfg.Indexing.BatchSize, logger)
	if err != nil {
		t.Fatalf("UpsertBatch second pass: %v", err)
	}
	if result.New != 0 || result.Updated != 2 {
		t.Fatalf("unexpected second pass result: %+v", result)
	}

	count, err := store.SessionCount(ctx)
	if err != nil {
		t.Fatalf("SessionCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 sessions after re-run, got %d", count)
	}

	first, err = store.FindByFileID(ctx, "file-1")
	if err != nil {
		t.Fatalf("FindByFileID after update: %v", err)
	}
	if first.Title != "Marissa & Iqra - Week 40" {
		t.Fatalf("expected updated title, got %q", first.Title)
	}
	if first.CreatedAt == "" || first.UpdatedAt == first.CreatedAt {
		t.Fatalf("expected updated_at to advance past created_at: %+v", first)
	}
}

func TestUpsertBatchCountsBadRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	records := []record.Session{
		sampleSession("file-1", "Marissa", "Iqra", 1.0),
		{Title: "no file id"},
		sampleSession("file-3", "Jenna", "Huda", 0.5),
	}

	result, err := store.UpsertBatch(ctx, records, 1, logging.NewNop())
	if err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}
	if result.New != 2 {
		t.Fatalf("expected 2 inserts, got %d", result.New)
	}
	if result.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", result.Errors)
	}
}

func TestUpsertBatchCommitsAroundBadRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	// All three records share one batch transaction; the bad one in the
	// middle must not roll back its siblings.
	records := []record.Session{
		sampleSession("file-1", "Marissa", "Iqra", 1.0),
		{Title: "no file id"},
		sampleSession("file-3", "Jenna", "Huda", 0.5),
	}

	result, err := store.UpsertBatch(ctx, records, len(records), logging.NewNop())
	if err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}
	if result.New != 2 || result.Errors != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	count, err := store.SessionCount(ctx)
	if err != nil {
		t.Fatalf("SessionCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected both good records committed, got %d", count)
	}
	for _, fileID := range []string{"file-1", "file-3"} {
		stored, err := store.FindByFileID(ctx, fileID)
		if err != nil {
			t.Fatalf("FindByFileID(%s): %v", fileID, err)
		}
		if stored == nil {
			t.Fatalf("expected %s to survive the batch", fileID)
		}
	}
}

func TestUpsertBatchTracksNeedsReview(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	flagged := sampleSession("file-1", "unknown", "Unknown", 0.25)
	flagged.NeedsReview = true
	flagged.ReviewReasons = []string{"missing coach", "low confidence"}

	result, err := store.UpsertBatch(context.Background(), []record.Session{flagged}, 500, logging.NewNop())
	if err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}
	if result.NeedsReview != 1 {
		t.Fatalf("expected 1 needs-review record, got %d", result.NeedsReview)
	}

	stored, err := store.FindByFileID(context.Background(), "file-1")
	if err != nil {
		t.Fatalf("FindByFileID: %v", err)
	}
	if !stored.NeedsReview {
		t.Fatal("expected stored record to keep its review flag")
	}
}

func TestRunStatsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	started := time.Now().UTC().Add(-time.Minute)
	stats := catalog.RunStats{
		StartedAt:        started,
		FinishedAt:       started.Add(30 * time.Second),
		Scanned:          12,
		New:              10,
		Updated:          2,
		ArchivedSkipped:  3,
		NeedsReviewCount: 4,
	}

	runID, err := store.InsertRunStats(context.Background(), stats)
	if err != nil {
		t.Fatalf("InsertRunStats: %v", err)
	}
	if runID == "" {
		t.Fatal("expected generated run id")
	}
	if got := stats.Duration(); got != 30*time.Second {
		t.Fatalf("unexpected run duration %v", got)
	}
}

func TestQualityReportStorage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	runID, err := store.InsertRunStats(ctx, catalog.RunStats{
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("InsertRunStats: %v", err)
	}

	report := catalog.BuildQualityReport([]record.Session{
		sampleSession("file-1", "Marissa", "Iqra", 1.0),
	}, cfg.Indexing.ReviewListCap)
	reportID, err := store.InsertQualityReport(ctx, runID, report)
	if err != nil {
		t.Fatalf("InsertQualityReport: %v", err)
	}
	if reportID == "" {
		t.Fatal("expected generated report id")
	}

	loaded, err := store.QualityReportForRun(ctx, runID)
	if err != nil {
		t.Fatalf("QualityReportForRun: %v", err)
	}
	if loaded.TotalSessions != 1 || loaded.HighConfidence != 1 {
		t.Fatalf("unexpected stored report: %+v", loaded)
	}
}
