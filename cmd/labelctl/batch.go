package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/label-tracker/internal/async"
	"github.com/joseph-ayodele/label-tracker/internal/ingest"
)

type batchOptions struct {
	dir            string
	save           bool
	out            string
	keepDuplicates bool
	workers        int
}

// batchLine is printed once per processed document.
type batchLine struct {
	Path        string   `json:"path"`
	OrderID     int64    `json:"order_id,omitempty"`
	OrderNo     string   `json:"order_no,omitempty"`
	NeedsReview bool     `json:"needs_review"`
	Missing     []string `json:"missing,omitempty"`
	Error       string   `json:"error,omitempty"`
	ElapsedMs   int64    `json:"elapsed_ms"`
}

type batchSummary struct {
	TraceID    string `json:"trace_id"`
	Scanned    uint32 `json:"scanned"`
	Matched    uint32 `json:"matched"`
	Duplicates uint32 `json:"duplicates"`
	Processed  int    `json:"processed"`
	Saved      int    `json:"saved"`
	Review     int    `json:"needs_review"`
	Failed     int    `json:"failed"`
}

func newBatchCmd(a *app) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Extract every pdf/txt label under a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBatch(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.dir, "dir", "", "directory to scan (required)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save each extracted record as a new order")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write an XLSX export of all saved orders when done")
	cmd.Flags().BoolVar(&opts.keepDuplicates, "keep-duplicates", false, "process byte-identical files more than once")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker count (default from BATCH_WORKERS)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, opts batchOptions) error {
	ctx := cmd.Context()
	traceID := uuid.NewString()
	logger := a.logger.With("trace_id", traceID)

	cands, stats, err := ingest.ScanDirectory(ctx, opts.dir, true)
	if err != nil {
		return err
	}
	logger.Info("batch.scan.ok", "dir", opts.dir, "scanned", stats.Scanned, "matched", stats.Matched, "duplicates", stats.Duplicates, "failed", stats.Failed)

	proc, err := a.processor(ctx, opts.save || opts.out != "")
	if err != nil {
		return err
	}

	workers := a.cfg.Batch.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	q := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(workers),
		async.WithQueueSize(a.cfg.Batch.QueueSize),
		async.WithProcessTimeout(a.cfg.Batch.ProcessTimeout),
	)

	go func() {
		defer q.Shutdown(context.Background())
		for _, c := range cands {
			if c.Err != "" || (c.Duplicate && !opts.keepDuplicates) {
				continue
			}
			job := async.Job{Path: c.Path, Hash: c.HashHex, Save: opts.save, SubmittedAt: time.Now(), TraceID: traceID}
			if err := q.Enqueue(ctx, job); err != nil {
				if !errors.Is(err, async.ErrQueueClosed) {
					logger.Warn("batch.enqueue.stopped", "path", c.Path, "error", err)
				}
				return
			}
		}
	}()

	sum := batchSummary{TraceID: traceID, Scanned: stats.Scanned, Matched: stats.Matched, Duplicates: stats.Duplicates, Failed: int(stats.Failed)}
	for res := range q.Results() {
		line := batchLine{Path: res.Job.Path, ElapsedMs: res.Duration.Milliseconds()}
		sum.Processed++
		if res.Err != nil {
			sum.Failed++
			line.Error = res.Err.Error()
		} else {
			line.OrderNo = res.Result.Record.OrderNo
			line.NeedsReview = res.Result.NeedsReview
			line.Missing = res.Result.Report.Missing()
			if res.Result.NeedsReview {
				sum.Review++
			}
			if res.Order != nil {
				line.OrderID = res.Order.ID
				sum.Saved++
			}
		}
		if err := a.printJSON(line); err != nil {
			return err
		}
	}

	if opts.out != "" {
		if err := a.writeExport(cmd, opts.out); err != nil {
			return err
		}
	}
	logger.Info("batch.done", "processed", sum.Processed, "saved", sum.Saved, "needs_review", sum.Review, "failed", sum.Failed)
	return a.printJSON(sum)
}
