// Package history persists batch scores to PostgreSQL so listings can be
// compared across runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/dotcommander/listingscore/internal/scoring"
	"github.com/dotcommander/listingscore/internal/types"
	"github.com/dotcommander/listingscore/pkg/errors"
)

const (
	batchSize    = 50
	recordFields = 11
)

// Record is one stored score.
type Record struct {
	ID            int64
	ListingID     string
	Path          string
	RubricVersion string
	Online        bool
	Total         int
	Max           int
	Percent       float64
	Grade         string
	Errors        int
	Warnings      int
	Issues        []scoring.Issue
	ScoredAt      time.Time
}

// FromResult builds a record for one scored listing.
func FromResult(listingID, path string, res scoring.Result, at time.Time) Record {
	return Record{
		ListingID:     listingID,
		Path:          path,
		RubricVersion: res.RubricVersion,
		Online:        res.Online,
		Total:         res.Total,
		Max:           res.Max,
		Percent:       res.Percent,
		Grade:         res.Grade,
		Errors:        len(res.IssuesBySeverity(types.SeverityError)),
		Warnings:      len(res.IssuesBySeverity(types.SeverityWarning)),
		Issues:        res.Issues,
		ScoredAt:      at.UTC(),
	}
}

// Writer stores records in PostgreSQL.
type Writer struct {
	db *sql.DB
}

// Open connects to PostgreSQL, runs the schema migration and returns a
// ready-to-use Writer.
func Open(ctx context.Context, dsn string) (*Writer, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStoreError("postgres open failed", "open", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError("postgres ping failed", "ping", err)
	}

	w := &Writer{db: db}
	if err := w.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError("postgres migrate failed", "migrate", err)
	}
	return w, nil
}

func (w *Writer) migrate(ctx context.Context) error {
	_, err := w.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listing_scores (
			id             BIGSERIAL PRIMARY KEY,
			listing_id     TEXT         NOT NULL,
			path           TEXT         NOT NULL DEFAULT '',
			rubric_version VARCHAR(32)  NOT NULL,
			online         BOOLEAN      NOT NULL DEFAULT FALSE,
			total          INTEGER      NOT NULL,
			max            INTEGER      NOT NULL,
			percent        NUMERIC(5,1) NOT NULL,
			grade          VARCHAR(8)   NOT NULL,
			errors         INTEGER      NOT NULL DEFAULT 0,
			warnings       INTEGER      NOT NULL DEFAULT 0,
			issues         JSONB        NOT NULL DEFAULT '[]',
			scored_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listing_scores_listing ON listing_scores(listing_id, scored_at DESC);
		CREATE INDEX IF NOT EXISTS idx_listing_scores_grade   ON listing_scores(grade);
	`)
	return err
}

// Write inserts records in batches.
func (w *Writer) Write(ctx context.Context, records []Record) error {
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))
		query, args, err := buildInsert(records[i:end])
		if err != nil {
			return err
		}
		if _, err := w.db.ExecContext(ctx, query, args...); err != nil {
			return errors.NewStoreError("insert failed", "write", err)
		}
	}
	return nil
}

func buildInsert(batch []Record) (string, []any, error) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*recordFields)

	for idx, r := range batch {
		issues, err := json.Marshal(r.Issues)
		if err != nil {
			return "", nil, errors.NewStoreError("failed to encode issues", "write", err)
		}
		if r.Issues == nil {
			issues = []byte("[]")
		}

		placeholders := make([]string, recordFields)
		for f := range placeholders {
			placeholders[f] = fmt.Sprintf("$%d", idx*recordFields+f+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.ListingID, r.Path, r.RubricVersion, r.Online, r.Total, r.Max,
			r.Percent, r.Grade, r.Errors, r.Warnings, string(issues))
	}

	query := fmt.Sprintf(`
		INSERT INTO listing_scores
			(listing_id, path, rubric_version, online, total, max, percent, grade, errors, warnings, issues)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs, nil
}

const selectColumns = `id, listing_id, path, rubric_version, online, total, max, percent, grade,
	errors, warnings, issues, scored_at`

// Latest returns the newest record per listing, ordered by listing id.
func (w *Writer) Latest(ctx context.Context) ([]Record, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT DISTINCT ON (listing_id) `+selectColumns+`
		FROM listing_scores
		ORDER BY listing_id, scored_at DESC, id DESC
	`)
	if err != nil {
		return nil, errors.NewStoreError("fetch latest failed", "latest", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListingHistory returns every record for one listing, newest first.
func (w *Writer) ListingHistory(ctx context.Context, listingID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := w.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM listing_scores
		WHERE listing_id = $1
		ORDER BY scored_at DESC, id DESC
		LIMIT $2
	`, listingID, limit)
	if err != nil {
		return nil, errors.NewStoreError("fetch history failed", "history", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var issues []byte
		if err := rows.Scan(
			&r.ID, &r.ListingID, &r.Path, &r.RubricVersion, &r.Online, &r.Total, &r.Max,
			&r.Percent, &r.Grade, &r.Errors, &r.Warnings, &issues, &r.ScoredAt,
		); err != nil {
			return nil, errors.NewStoreError("scan row failed", "scan", err)
		}
		if err := json.Unmarshal(issues, &r.Issues); err != nil {
			return nil, errors.NewStoreError("decode issues failed", "scan", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database handle.
func (w *Writer) Close() error {
	return w.db.Close()
}
