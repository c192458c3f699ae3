package importer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/becked/per-ankh-sub000/internal/store"
)

// BatchOptions tune a batch run.
type BatchOptions struct {
	// Workers caps concurrent imports. Zero means four.
	Workers int

	CollectionID int64
	Progress     ProgressFunc
	Logger       *slog.Logger
}

// FileError pairs a failed archive with its error message.
type FileError struct {
	Path  string
	Error string
}

// BatchResult aggregates a batch run.
type BatchResult struct {
	Total      int
	Successful int
	Failed     int
	Skipped    int
	Errors     []FileError
}

// ImportBatch imports many archives concurrently on a worker pool. Lock
// contention on a game is retried with capped exponential backoff; any
// other error marks the file failed and the batch continues.
func ImportBatch(ctx context.Context, st *store.Store, paths []string, opts BatchOptions) *BatchResult {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	runID := uuid.NewString()

	result := &BatchResult{Total: len(paths)}
	var mu sync.Mutex

	pool := pond.NewPool(workers, pond.WithContext(ctx))
	for i, path := range paths {
		pool.Submit(func() {
			res, err := importWithRetry(ctx, st, path, Options{
				CollectionID: opts.CollectionID,
				Progress:     opts.Progress,
				Logger:       log,
				runID:        runID,
				fileIndex:    i,
				totalFiles:   len(paths),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				result.Errors = append(result.Errors, FileError{Path: path, Error: err.Error()})
				log.Error("import failed", "path", path, "error", err)
			case res.Skipped:
				result.Skipped++
			default:
				result.Successful++
			}
		})
	}
	pool.StopAndWait()

	log.Info("batch complete",
		"total", result.Total, "successful", result.Successful,
		"failed", result.Failed, "skipped", result.Skipped)
	return result
}

// importWithRetry retries lock contention a few times and gives other
// errors straight back.
func importWithRetry(ctx context.Context, st *store.Store, path string, opts Options) (*Result, error) {
	var res *Result

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	err := backoff.Retry(func() error {
		var err error
		res, err = Import(ctx, st, path, opts)
		if err != nil && !errors.Is(err, ErrConcurrencyLock) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, 5), ctx))
	if err != nil {
		return nil, err
	}
	return res, nil
}
