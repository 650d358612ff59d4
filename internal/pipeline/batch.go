package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// BatchJob describes a batch of image files to scan with one configuration.
type BatchJob struct {
	ImageRefs []string
	// StopOnError aborts the loop after the first failed item instead of
	// isolating it. Already-collected successes and errors are returned.
	StopOnError bool
}

// ProcessBatch scans the job's images sequentially. Per-item failures are
// isolated into the error list; only a failure outside the per-item loop
// aborts the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, job BatchJob) (*BatchResult, error) {
	if len(job.ImageRefs) == 0 {
		return nil, errors.New("no images in batch job")
	}

	start := time.Now()
	result := &BatchResult{}
	for _, ref := range job.ImageRefs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := p.ProcessFile(ctx, ref)
		result.TotalProcessed++
		if err != nil {
			slog.Warn("Batch item failed", "image", ref, "error", err)
			result.Errors = append(result.Errors, BatchItemError{
				ImageRef: ref,
				Err:      err,
				Message:  err.Error(),
			})
			if job.StopOnError {
				break
			}
			continue
		}
		result.Successes = append(result.Successes, res)
	}
	result.Duration = time.Since(start)
	return result, nil
}
