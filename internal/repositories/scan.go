package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/models"
	"github.com/adermis/adermis/internal/sqlite"
	"github.com/google/uuid"
)

type ScanRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewScanRepository(dbs *sqlite.Database, logger *slog.Logger) *ScanRepository {
	return &ScanRepository{
		dbs:    dbs,
		logger: logger.With("source", "ScanRepository"),
	}
}

// Record persists one completed scan to the user's history and returns its ID.
func (r *ScanRepository) Record(ctx context.Context, userID int64, result models.AnalysisResult) (string, error) {
	id := uuid.NewString()
	stmt := `INSERT INTO scans (id, user_id, condition, confidence, severity)
VALUES (@id, @user_id, @condition, @confidence, @severity)`
	params := []any{
		sql.Named("id", id),
		sql.Named("user_id", userID),
		sql.Named("condition", result.Condition),
		sql.Named("confidence", result.Confidence),
		sql.Named("severity", string(result.Severity)),
	}
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return "", errors.Wrap(err, "insert scan", slog.Int64("user_id", userID))
	}
	return id, nil
}

// Latest returns the user's scan history newest first. A non-positive limit
// returns the full history.
func (r *ScanRepository) Latest(ctx context.Context, userID int64, limit int) ([]models.Scan, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded.
	}
	stmt := `SELECT id, user_id, condition, confidence, severity, created_at
FROM scans
WHERE user_id = @user_id
ORDER BY created_at DESC, rowid DESC
LIMIT @limit`
	rows, err := r.dbs.ReadOnly.QueryContext(ctx, stmt,
		sql.Named("user_id", userID),
		sql.Named("limit", limit),
	)
	if err != nil {
		return nil, errors.Wrap(err, "query scans")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.Error("could not close rows", errors.SlogError(closeErr))
		}
	}()

	var scans []models.Scan
	for rows.Next() {
		var (
			scan     models.Scan
			severity string
			created  string
		)
		if err = rows.Scan(&scan.ID, &scan.UserID, &scan.Condition, &scan.Confidence, &severity, &created); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		scan.Severity = models.Severity(severity)
		if scan.Created, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, errors.Wrap(err, "parse created timestamp")
		}
		scans = append(scans, scan)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return scans, nil
}

// Stats summarises the user's history for the dashboard.
func (r *ScanRepository) Stats(ctx context.Context, userID int64) (models.ScanStats, error) {
	var (
		stats   models.ScanStats
		last    sql.NullString
		created sql.NullString
	)
	stmt := `SELECT COUNT(*),
       (SELECT condition FROM scans WHERE user_id = @user_id ORDER BY created_at DESC, rowid DESC LIMIT 1),
       (SELECT created_at FROM scans WHERE user_id = @user_id ORDER BY created_at DESC, rowid DESC LIMIT 1)
FROM scans
WHERE user_id = @user_id`
	err := r.dbs.ReadOnly.QueryRowContext(ctx, stmt, sql.Named("user_id", userID)).
		Scan(&stats.TotalScans, &last, &created)
	if err != nil {
		return models.ScanStats{}, errors.Wrap(err, "read scan stats")
	}
	if last.Valid {
		stats.LastCondition = last.String
	}
	if created.Valid {
		if stats.LastScan, err = time.Parse(time.RFC3339, created.String); err != nil {
			return models.ScanStats{}, errors.Wrap(err, "parse created timestamp")
		}
	}
	return stats, nil
}
