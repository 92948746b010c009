package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/a11ejandro/statworker/descriptive"
)

func existsTestRun(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM test_runs WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func fetchTaskWindow(ctx context.Context, db *sql.DB, testRunID int64) (int, int, error) {
	const q = `
SELECT tasks.page, tasks.per_page
FROM tasks
JOIN handlers ON handlers.task_id = tasks.id
JOIN test_runs ON test_runs.handler_id = handlers.id
WHERE test_runs.id = $1
LIMIT 1`

	var page, perPage sql.NullInt64
	err := db.QueryRowContext(ctx, q, testRunID).Scan(&page, &perPage)
	if err != nil && err != sql.ErrNoRows {
		return 0, 0, err
	}
	return normalizePositiveInt(page.Int64, 1), normalizePositiveInt(perPage.Int64, 1), nil
}

// fetchSamples reads one page of observations in insertion order. NULL
// values are skipped.
func fetchSamples(ctx context.Context, db *sql.DB, page, perPage int) ([]float64, error) {
	limit, offset := windowLimitOffset(page, perPage)

	rows, err := db.QueryContext(ctx, "SELECT value FROM samples ORDER BY id ASC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	values := make([]float64, 0, limit)
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			values = append(values, v.Float64)
		}
	}
	return values, rows.Err()
}

func windowLimitOffset(page, perPage int) (limit, offset int) {
	pp := normalizePositiveInt(int64(perPage), 1)
	pg := normalizePositiveInt(int64(page), 1)
	return pp, (pg - 1) * pp
}

func normalizePositiveInt(value int64, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return int(value)
}

// insertTestResult stores the report and returns the new row id.
func insertTestResult(ctx context.Context, db *sql.DB, testRunID int64, r Report, durationSeconds, memoryBytes float64) (int64, error) {
	const q = `
INSERT INTO test_results
  (test_run_id, sample_size, mean, median, interpolated_median, q1, q3, min, max,
   standard_deviation, variance, skewness, pearson_skewness, modes, multimodal,
   duration, memory, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW(),NOW())
RETURNING id`

	var id int64
	err := db.QueryRowContext(ctx, q,
		testRunID, r.Count,
		r.Mean, r.Median, r.InterpolatedMedian, r.Q1, r.Q3, r.Min, r.Max,
		nullableFloat(r.StdDev), nullableFloat(r.Variance),
		nullableFloat(r.Skewness), nullableFloat(r.PearsonSkewness),
		pq.Array(r.Modes), r.Multimodal,
		durationSeconds, memoryBytes,
	).Scan(&id)
	return id, err
}

// insertHistogram bulk-loads the histogram bins of a result with COPY.
func insertHistogram(ctx context.Context, db *sql.DB, resultID int64, bins []descriptive.Entry) (err error) {
	if len(bins) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("test_result_bins", "test_result_id", "bin", "probability"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	for _, b := range bins {
		if _, err = stmt.ExecContext(ctx, resultID, b.Key, b.Value); err != nil {
			stmt.Close()
			return fmt.Errorf("copy bin %v: %w", b.Key, err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// nullableFloat maps NaN and infinities, which Postgres numeric columns
// reject, to NULL.
func nullableFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !isNaNOrInf(v)}
}
