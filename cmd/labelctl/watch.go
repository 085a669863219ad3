package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/label-tracker/internal/ingest"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		dirs     []string
		save     bool
		existing bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Extract labels as they appear in one or more directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			proc, err := a.processor(ctx, save)
			if err != nil {
				return err
			}
			files, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       dirs,
				InitialScan: existing,
				Debounce:    debounce,
				SkipHidden:  true,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}
			a.logger.Info("watch.started", "dirs", dirs, "save", save)

			for files != nil || errs != nil {
				select {
				case path, ok := <-files:
					if !ok {
						files = nil
						continue
					}
					line := batchLine{Path: path}
					start := time.Now()
					res, err := proc.ProcessFile(ctx, path)
					if err == nil {
						line.OrderNo = res.Record.OrderNo
						line.NeedsReview = res.NeedsReview
						line.Missing = res.Report.Missing()
						if save {
							order, serr := proc.Save(ctx, res.Record)
							if serr == nil {
								line.OrderID = order.ID
							}
							err = serr
						}
					}
					if err != nil {
						line.Error = err.Error()
					}
					line.ElapsedMs = time.Since(start).Milliseconds()
					if err := a.printJSON(line); err != nil {
						return err
					}
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					a.logger.Warn("watch.error", "error", err)
				}
			}
			a.logger.Info("watch.stopped")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "directory to watch, repeatable (required)")
	cmd.Flags().BoolVar(&save, "save", false, "save each extracted record as a new order")
	cmd.Flags().BoolVar(&existing, "existing", false, "also process files already present")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "wait this long after the last write before processing")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
