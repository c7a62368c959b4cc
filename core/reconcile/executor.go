package reconcile

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Operation names for units and write errors.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// Unit is one independent mutating operation drawn from a changeset bucket.
// The Do closure is fully constructed before Apply runs, so a dry run can
// log exactly what would have been written.
type Unit struct {
	// Op names the operation for logs and error reports (insert, update,
	// delete).
	Op string
	// Key is the identity key of the entity the unit touches.
	Key string
	// Describe adds human-readable detail to the log line, e.g.
	// "User 0 <user0@example.com>". Optional.
	Describe string
	// Do performs the remote write.
	Do func(ctx context.Context) error
}

// Options controls how a bucket of units is applied.
type Options struct {
	// Width is the number of concurrent workers. Values below 1 are
	// treated as 1. Keep ACL writes at 1: the remote rate limiter
	// penalizes concurrent ACL mutations.
	Width int
	// DryRun skips every Do call after logging the constructed operation.
	// List and read calls are unaffected; they happen before Apply.
	DryRun bool
}

// Result summarizes an Apply pass for the exit report. The per-operation
// counters track successful writes only; upserts count as updates.
type Result struct {
	Attempted int
	Succeeded int
	Inserts   int
	Updates   int
	Deletes   int
}

// Failed returns the number of units that failed.
func (r Result) Failed() int {
	return r.Attempted - r.Succeeded
}

// Add folds another result into this one.
func (r *Result) Add(other Result) {
	r.Attempted += other.Attempted
	r.Succeeded += other.Succeeded
	r.Inserts += other.Inserts
	r.Updates += other.Updates
	r.Deletes += other.Deletes
}

func (r *Result) countOp(op string) {
	switch op {
	case OpInsert:
		r.Inserts++
	case OpUpdate, OpUpsert:
		r.Updates++
	case OpDelete:
		r.Deletes++
	}
}

// Apply drives a bucket of units through a bounded worker pool.
//
// Units fail independently: one unit's error never cancels its siblings,
// and all failures are collected into the returned error as WriteErrors.
// Cancelling ctx aborts units that have not started and lets in-flight
// calls fail on their own; no rollback is attempted (at-least-once
// semantics).
//
// With DryRun set, no Do call is made and the result reports full success
// so callers can exercise the whole diff-and-build pipeline without side
// effects.
func Apply(ctx context.Context, log *zap.Logger, units []Unit, opts Options) (Result, error) {
	result := Result{Attempted: len(units)}

	if opts.DryRun {
		for _, unit := range units {
			log.Info("Dry run, skipping write",
				zap.String("op", unit.Op),
				zap.String("key", unit.Key),
				zap.String("detail", unit.Describe),
			)
			result.countOp(unit.Op)
		}
		result.Succeeded = len(units)
		return result, nil
	}

	width := opts.Width
	if width < 1 {
		width = 1
	}
	if width > len(units) {
		width = len(units)
	}

	jobs := make(chan Unit)
	errs := make([]error, 0, len(units))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < width; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range jobs {
				err := unit.Do(ctx)

				mu.Lock()
				if err != nil {
					errs = append(errs, &WriteError{Op: unit.Op, Key: unit.Key, Err: err})
				} else {
					result.Succeeded++
					result.countOp(unit.Op)
				}
				mu.Unlock()

				if err != nil {
					log.Error("Unit failed",
						zap.String("op", unit.Op),
						zap.String("key", unit.Key),
						zap.Error(err),
					)
				}
			}
		}()
	}

feed:
	for _, unit := range units {
		select {
		case jobs <- unit:
		case <-ctx.Done():
			// Units not yet started are abandoned; in-flight units
			// finish or fail on their own.
			mu.Lock()
			errs = append(errs, ctx.Err())
			mu.Unlock()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return result, multierr.Combine(errs...)
}
