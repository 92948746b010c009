package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPopTimeout = 5 * time.Second
	reconnectDelay    = 2 * time.Second
)

type worker struct {
	db     *sql.DB
	cfg    Config
	logger *zap.Logger
	// popTimeout bounds each BRPOP; zero means defaultPopTimeout.
	popTimeout time.Duration
}

func (w *worker) processTestRun(ctx context.Context, testRunID int64) error {
	exists, err := existsTestRun(ctx, w.db, testRunID)
	if err != nil {
		return fmt.Errorf("look up test_run %d: %w", testRunID, err)
	}
	if !exists {
		return fmt.Errorf("test_runs id %d not found", testRunID)
	}
	page, perPage, err := fetchTaskWindow(ctx, w.db, testRunID)
	if err != nil {
		return fmt.Errorf("fetch task window failed: %w", err)
	}
	values, err := fetchSamples(ctx, w.db, page, perPage)
	if err != nil {
		return fmt.Errorf("fetch samples failed: %w", err)
	}

	var report Report
	elapsed, peak, err := measurePeakResidentMemory(func() error {
		var err error
		report, err = calculateReport(values, w.cfg.BinWidth)
		return err
	})
	if err != nil {
		return fmt.Errorf("calculate report failed: %w", err)
	}

	resultID, err := insertTestResult(ctx, w.db, testRunID, report, elapsed, peak)
	if err != nil {
		return fmt.Errorf("insert test_result failed: %w", err)
	}
	if err := insertHistogram(ctx, w.db, resultID, report.Histogram); err != nil {
		return fmt.Errorf("insert histogram failed: %w", err)
	}
	w.logger.Info("processed test run",
		zap.Int64("test_run_id", testRunID),
		zap.Int64("test_result_id", resultID),
		zap.Int("samples", report.Count),
		zap.Int("bins", len(report.Histogram)),
		zap.Float64("duration_seconds", elapsed),
		zap.Float64("peak_rss_bytes", peak),
	)
	return nil
}

// runService consumes jobs until ctx is cancelled. Connection errors are
// logged and retried after reconnectDelay; the client redials on its own.
func (w *worker) runService(ctx context.Context) error {
	rdb, err := newRedisClient(w.cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	w.logger.Info("listening for jobs", zap.String("redis", rdb.Options().Addr), zap.String("queue", w.cfg.Queue))

	timeout := w.popTimeout
	if timeout <= 0 {
		timeout = defaultPopTimeout
	}
	for ctx.Err() == nil {
		payload, err := popJob(ctx, rdb, w.cfg.Queue, timeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			w.logger.Warn("redis pop failed", zap.Error(err), zap.Duration("retry_in", reconnectDelay))
			sleepContext(ctx, reconnectDelay)
			continue
		}
		if payload == "" {
			continue
		}
		w.handle(ctx, payload)
	}
	w.logger.Info("service stopped")
	return nil
}

func (w *worker) handle(ctx context.Context, payload string) {
	job, id, err := decodeJob(payload)
	switch {
	case errors.Is(err, errSkipJob):
		w.logger.Debug("skipping job", zap.String("class", job.Class))
		return
	case err != nil:
		w.logger.Warn("invalid job", zap.Error(err), zap.String("payload", payload))
		return
	}
	if err := w.processTestRun(ctx, id); err != nil {
		w.logger.Error("process error", zap.Int64("test_run_id", id), zap.String("jid", job.JID), zap.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
