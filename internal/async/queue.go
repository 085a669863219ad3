package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue once Shutdown has begun.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document to process.
type Job struct {
	Path        string
	Hash        string
	Save        bool // persist the extracted record
	SubmittedAt time.Time
	TraceID     string
}

// JobResult reports the outcome of one Job.
type JobResult struct {
	Job      Job
	Result   processor.Result
	Order    *entity.Order // set when Job.Save and the insert succeeded
	Err      error
	Duration time.Duration
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Results() <-chan JobResult
	Shutdown(ctx context.Context)
}

// FileProcessor is the part of processor.Processor the workers need.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (processor.Result, error)
	Save(ctx context.Context, rec entity.Record) (*entity.Order, error)
}
