package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"driveindex/internal/logging"
	"driveindex/internal/record"
)

// UpsertResult reports the outcome of one batch upsert pass.
type UpsertResult struct {
	New         int
	Updated     int
	Errors      int
	NeedsReview int
}

// UpsertBatch writes records to the sessions table in fixed-size batches,
// matching on the external file id: absent records are inserted, present ones
// updated in place with a fresh updated_at stamp. Each batch commits as one
// transaction so the store sees grouped writes, not per-record autocommits. A
// failure upserting one record is counted and the batch continues; nothing
// aborts the pass.
func (s *Store) UpsertBatch(ctx context.Context, records []record.Session, batchSize int, logger *slog.Logger) (UpsertResult, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	logger = logging.WithComponent(logger, "catalog")

	result := UpsertResult{}
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.upsertSlice(ctx, records[start:end], &result, logger); err != nil {
			return result, err
		}
	}
	return result, nil
}

// upsertSlice writes one batch inside a single transaction. Per-record
// statement errors are counted and skipped without poisoning the transaction;
// a failed commit converts the whole batch's writes into errors.
func (s *Store) upsertSlice(ctx context.Context, batch []record.Session, result *UpsertResult, logger *slog.Logger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}

	var batchNew, batchUpdated, batchReview int
	for _, session := range batch {
		if err := ctx.Err(); err != nil {
			_ = tx.Rollback()
			return err
		}
		inserted, err := upsertOne(ctx, tx, session)
		if err != nil {
			result.Errors++
			logger.Warn("session upsert failed",
				logging.String("file_id", session.FileID),
				logging.Error(err))
			continue
		}
		if inserted {
			batchNew++
		} else {
			batchUpdated++
		}
		if session.NeedsReview {
			batchReview++
		}
	}

	if err := tx.Commit(); err != nil {
		result.Errors += batchNew + batchUpdated
		logger.Warn("batch commit failed, records in batch dropped",
			logging.Int("records", batchNew+batchUpdated),
			logging.Error(err))
		return nil
	}
	result.New += batchNew
	result.Updated += batchUpdated
	result.NeedsReview += batchReview
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsertOne(ctx context.Context, db querier, session record.Session) (inserted bool, err error) {
	if session.FileID == "" {
		return false, errors.New("session missing file id")
	}

	existing, err := findByFileID(ctx, db, session.FileID)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	subjectsJSON, err := json.Marshal(session.Subjects)
	if err != nil {
		return false, fmt.Errorf("marshal subjects: %w", err)
	}
	tagsJSON, err := json.Marshal(session.Tags)
	if err != nil {
		return false, fmt.Errorf("marshal tags: %w", err)
	}
	var reasonsJSON any
	if len(session.ReviewReasons) > 0 {
		data, err := json.Marshal(session.ReviewReasons)
		if err != nil {
			return false, fmt.Errorf("marshal review reasons: %w", err)
		}
		reasonsJSON = string(data)
	}

	var sessionDate any
	if session.SessionInfo.Date != nil {
		sessionDate = session.SessionInfo.Date.Format("2006-01-02")
	}

	if existing == nil {
		_, err = db.ExecContext(ctx,
			`INSERT INTO sessions (
                file_id, title, description, session_type, session_date, week,
                duration_minutes, is_no_show, coach, student, coach_normalized,
                student_normalized, subjects_json, tags_json, priority,
                has_coach, has_student, has_week, has_date, confidence,
                needs_review, review_reasons_json, folder_path, web_view_link,
                parse_method, was_patched, patch_applied, indexed_at,
                created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.FileID,
			session.Title,
			nullableString(session.Description),
			session.SessionInfo.Type,
			sessionDate,
			nullableString(session.SessionInfo.Week),
			session.SessionInfo.DurationMinutes,
			boolToInt(session.SessionInfo.IsNoShow),
			nullableString(session.Participants.Coach),
			nullableString(session.Participants.Student),
			nullableString(session.Participants.CoachNormalized),
			nullableString(session.Participants.StudentNormalized),
			string(subjectsJSON),
			string(tagsJSON),
			session.Priority,
			boolToInt(session.DataQuality.HasCoach),
			boolToInt(session.DataQuality.HasStudent),
			boolToInt(session.DataQuality.HasWeek),
			boolToInt(session.DataQuality.HasDate),
			session.DataQuality.Confidence,
			boolToInt(session.NeedsReview),
			reasonsJSON,
			nullableString(session.FolderPath),
			nullableString(session.WebViewLink),
			nullableString(session.ParseMethod),
			boolToInt(session.WasPatched),
			nullableString(session.PatchApplied),
			session.IndexedAt.UTC().Format(time.RFC3339Nano),
			now,
			now,
		)
		if err != nil {
			return false, fmt.Errorf("insert session: %w", err)
		}
		return true, nil
	}

	_, err = db.ExecContext(ctx,
		`UPDATE sessions SET
            title = ?, description = ?, session_type = ?, session_date = ?,
            week = ?, duration_minutes = ?, is_no_show = ?, coach = ?,
            student = ?, coach_normalized = ?, student_normalized = ?,
            subjects_json = ?, tags_json = ?, priority = ?, has_coach = ?,
            has_student = ?, has_week = ?, has_date = ?, confidence = ?,
            needs_review = ?, review_reasons_json = ?, folder_path = ?,
            web_view_link = ?, parse_method = ?, was_patched = ?,
            patch_applied = ?, indexed_at = ?, updated_at = ?
        WHERE file_id = ?`,
		session.Title,
		nullableString(session.Description),
		session.SessionInfo.Type,
		sessionDate,
		nullableString(session.SessionInfo.Week),
		session.SessionInfo.DurationMinutes,
		boolToInt(session.SessionInfo.IsNoShow),
		nullableString(session.Participants.Coach),
		nullableString(session.Participants.Student),
		nullableString(session.Participants.CoachNormalized),
		nullableString(session.Participants.StudentNormalized),
		string(subjectsJSON),
		string(tagsJSON),
		session.Priority,
		boolToInt(session.DataQuality.HasCoach),
		boolToInt(session.DataQuality.HasStudent),
		boolToInt(session.DataQuality.HasWeek),
		boolToInt(session.DataQuality.HasDate),
		session.DataQuality.Confidence,
		boolToInt(session.NeedsReview),
		reasonsJSON,
		nullableString(session.FolderPath),
		nullableString(session.WebViewLink),
		nullableString(session.ParseMethod),
		boolToInt(session.WasPatched),
		nullableString(session.PatchApplied),
		session.IndexedAt.UTC().Format(time.RFC3339Nano),
		now,
		session.FileID,
	)
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	return false, nil
}

// StoredSession is the subset of columns callers inspect after a run.
type StoredSession struct {
	FileID      string
	Title       string
	SessionType string
	Coach       string
	Student     string
	Confidence  float64
	NeedsReview bool
	Priority    string
	CreatedAt   string
	UpdatedAt   string
}

// FindByFileID fetches a stored session by its external file id; nil when absent.
func (s *Store) FindByFileID(ctx context.Context, fileID string) (*StoredSession, error) {
	return findByFileID(ctx, s.db, fileID)
}

func findByFileID(ctx context.Context, db querier, fileID string) (*StoredSession, error) {
	row := db.QueryRowContext(ctx,
		`SELECT file_id, title, session_type, coach_normalized, student_normalized,
                confidence, needs_review, priority, created_at, updated_at
         FROM sessions WHERE file_id = ?`, fileID)

	var (
		stored  StoredSession
		coach   sql.NullString
		student sql.NullString
		review  int
	)
	err := row.Scan(&stored.FileID, &stored.Title, &stored.SessionType, &coach, &student,
		&stored.Confidence, &review, &stored.Priority, &stored.CreatedAt, &stored.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session %s: %w", fileID, err)
	}
	stored.Coach = coach.String
	stored.Student = student.String
	stored.NeedsReview = review != 0
	return &stored, nil
}

// SessionCount returns the number of stored sessions.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM sessions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
