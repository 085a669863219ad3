package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/export"
	"github.com/joseph-ayodele/label-tracker/internal/extract"
	"github.com/joseph-ayodele/label-tracker/internal/ocr"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
	parse "github.com/joseph-ayodele/label-tracker/internal/pipeline/parsefields"
	"github.com/joseph-ayodele/label-tracker/internal/pipeline/textextract"
	repo "github.com/joseph-ayodele/label-tracker/internal/repository"
	svc "github.com/joseph-ayodele/label-tracker/internal/server"
)

// app carries what the subcommands share. The store is opened on first use so
// `extract` works without one.
type app struct {
	dsn     string
	verbose bool

	cfg    *common.Config
	logger *slog.Logger
	out    io.Writer

	db     *repo.DB
	orders repo.OrderRepository
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "labelctl",
		Short:        "Extract, save and export shipping label orders",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.dsn, "db", "", "database DSN or SQLite path (overrides DB_URL)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newExtractCmd(a),
		newSaveCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	// stdout is reserved for command output
	a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	a.out = cmd.OutOrStdout()

	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	if a.dsn != "" {
		cfg.Database.DSN = a.dsn
	}
	a.cfg = cfg
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close(a.logger)
		a.db = nil
	}
}

// store connects on first call.
func (a *app) store(ctx context.Context) (repo.OrderRepository, error) {
	if a.orders != nil {
		return a.orders, nil
	}
	db, orders, err := svc.ConnectDB(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return nil, err
	}
	a.db, a.orders = db, orders
	return orders, nil
}

// processor wires the extraction pipeline; withStore also connects the database.
func (a *app) processor(ctx context.Context, withStore bool) (*processor.Processor, error) {
	var orders repo.OrderRepository
	if withStore {
		var err error
		if orders, err = a.store(ctx); err != nil {
			return nil, err
		}
	}
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:        a.cfg.OCR.Pdftotext,
		Layout:           a.cfg.OCR.Layout,
		MaxPages:         a.cfg.OCR.MaxPages,
		ArtifactCacheDir: a.cfg.OCR.ArtifactCacheDir,
	}, a.logger)
	textPipe := textextract.NewPipeline(extract.NewOCRAdapter(extractor, a.logger), a.logger)
	return processor.NewProcessor(a.logger, textPipe, parse.NewPipeline(a.logger), orders), nil
}

func (a *app) exporter(ctx context.Context) (*export.Service, error) {
	orders, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	return export.NewService(orders, a.logger), nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
