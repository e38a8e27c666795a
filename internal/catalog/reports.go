package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"driveindex/internal/record"
)

// RunStats summarizes a single indexing pass over the drive tree.
type RunStats struct {
	RunID            string    `json:"runId"`
	StartedAt        time.Time `json:"startedAt"`
	FinishedAt       time.Time `json:"finishedAt"`
	Scanned          int       `json:"scanned"`
	New              int       `json:"new"`
	Updated          int       `json:"updated"`
	Errors           int       `json:"errors"`
	Skipped          int       `json:"skipped"`
	ArchivedSkipped  int       `json:"archivedSkipped"`
	ListingFailures  int       `json:"listingFailures"`
	NeedsReviewCount int       `json:"needsReviewCount"`
}

// Duration returns the wall-clock span of the run.
func (r RunStats) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// InsertRunStats records the outcome of a run. A missing run id is generated.
func (s *Store) InsertRunStats(ctx context.Context, stats RunStats) (string, error) {
	if stats.RunID == "" {
		stats.RunID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_stats (
            run_id, started_at, finished_at, scanned, new_count, updated_count,
            error_count, skipped_count, archived_skipped, listing_failures,
            needs_review_count
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.RunID,
		stats.StartedAt.UTC().Format(time.RFC3339Nano),
		stats.FinishedAt.UTC().Format(time.RFC3339Nano),
		stats.Scanned,
		stats.New,
		stats.Updated,
		stats.Errors,
		stats.Skipped,
		stats.ArchivedSkipped,
		stats.ListingFailures,
		stats.NeedsReviewCount,
	)
	if err != nil {
		return "", fmt.Errorf("insert run stats: %w", err)
	}
	return stats.RunID, nil
}

// Confidence tier boundaries for the quality report.
const (
	highConfidenceFloor   = 0.8
	mediumConfidenceFloor = 0.5
)

// ReviewItem is one entry in the capped needs-review listing.
type ReviewItem struct {
	FileID     string   `json:"fileId"`
	Title      string   `json:"title"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
}

// QualityReport is the per-run extraction quality summary.
type QualityReport struct {
	TotalSessions    int            `json:"totalSessions"`
	HighConfidence   int            `json:"highConfidence"`
	MediumConfidence int            `json:"mediumConfidence"`
	LowConfidence    int            `json:"lowConfidence"`
	ByCoach          map[string]int `json:"byCoach"`
	BySessionType    map[string]int `json:"bySessionType"`
	NeedsReview      []ReviewItem   `json:"needsReview"`
	ReviewTruncated  bool           `json:"reviewTruncated"`
}

// BuildQualityReport aggregates extraction quality across one run's records.
// The needs-review list is sorted lowest confidence first and capped.
func BuildQualityReport(records []record.Session, reviewCap int) QualityReport {
	report := QualityReport{
		TotalSessions: len(records),
		ByCoach:       make(map[string]int),
		BySessionType: make(map[string]int),
	}

	var review []ReviewItem
	for _, session := range records {
		switch confidence := session.DataQuality.Confidence; {
		case confidence >= highConfidenceFloor:
			report.HighConfidence++
		case confidence >= mediumConfidenceFloor:
			report.MediumConfidence++
		default:
			report.LowConfidence++
		}
		report.ByCoach[session.Participants.CoachNormalized]++
		report.BySessionType[session.SessionInfo.Type]++
		if session.NeedsReview {
			review = append(review, ReviewItem{
				FileID:     session.FileID,
				Title:      session.Title,
				Confidence: session.DataQuality.Confidence,
				Reasons:    session.ReviewReasons,
			})
		}
	}

	sort.SliceStable(review, func(i, j int) bool {
		return review[i].Confidence < review[j].Confidence
	})
	if reviewCap > 0 && len(review) > reviewCap {
		review = review[:reviewCap]
		report.ReviewTruncated = true
	}
	report.NeedsReview = review
	return report
}

// InsertQualityReport stores the report JSON alongside its run id and returns
// the generated report id.
func (s *Store) InsertQualityReport(ctx context.Context, runID string, report QualityReport) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal quality report: %w", err)
	}
	reportID := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quality_reports (report_id, run_id, created_at, report_json)
         VALUES (?, ?, ?, ?)`,
		reportID,
		runID,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert quality report: %w", err)
	}
	return reportID, nil
}

// QualityReportForRun loads the most recent stored report for a run.
func (s *Store) QualityReportForRun(ctx context.Context, runID string) (*QualityReport, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT report_json FROM quality_reports
         WHERE run_id = ? ORDER BY created_at DESC LIMIT 1`, runID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load quality report for run %s: %w", runID, err)
	}
	var report QualityReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("decode quality report: %w", err)
	}
	return &report, nil
}
