package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
	"github.com/joseph-ayodele/label-tracker/internal/schema"
)

func newExtractCmd(a *app) *cobra.Command {
	var withText bool
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract the order record from a label without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := a.processor(cmd.Context(), false)
			if err != nil {
				return err
			}
			res, err := proc.ProcessFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !withText {
				res.Text = ""
			}
			return a.printJSON(res)
		},
	}
	cmd.Flags().BoolVar(&withText, "text", false, "include the extracted text in the output")
	return cmd
}

func newSaveCmd(a *app) *cobra.Command {
	var fromJSON bool
	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Extract a label and save its record as a new order",
		Long: "Extract a label and save its record as a new order. With --json the file holds\n" +
			"a record object, such as a hand-corrected copy of the \"record\" printed by extract.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proc, err := a.processor(ctx, true)
			if err != nil {
				return err
			}

			var rec entity.Record
			if fromJSON {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				if rec, err = schema.DecodeRecord(data); err != nil {
					return err
				}
			} else {
				res, err := proc.ProcessFile(ctx, args[0])
				if err != nil {
					return err
				}
				if res.NeedsReview {
					a.logger.Warn("saving a record flagged for review", "path", args[0], "missing", res.Report.Missing(), "fallback", res.Report.Fallbacks())
				}
				rec = res.Record
			}

			order, err := proc.Save(ctx, rec)
			if err != nil {
				return err
			}
			return a.printJSON(order)
		},
	}
	cmd.Flags().BoolVar(&fromJSON, "json", false, "treat <file> as a JSON record instead of a label")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print saved orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			all, err := orders.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(map[string]any{"orders": all})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all saved orders to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.writeExport(cmd, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "orders.xlsx", "output XLSX path")
	return cmd
}

func (a *app) writeExport(cmd *cobra.Command, out string) error {
	exporter, err := a.exporter(cmd.Context())
	if err != nil {
		return err
	}
	data, err := exporter.ExportOrdersXLSX(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	a.logger.Info("export written", "path", out, "bytes", len(data))
	return nil
}
