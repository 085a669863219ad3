package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/entity"
	"github.com/joseph-ayodele/label-tracker/internal/export"
	"github.com/joseph-ayodele/label-tracker/internal/extract"
	"github.com/joseph-ayodele/label-tracker/internal/ocr"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
	parse "github.com/joseph-ayodele/label-tracker/internal/pipeline/parsefields"
	"github.com/joseph-ayodele/label-tracker/internal/pipeline/textextract"
	"github.com/joseph-ayodele/label-tracker/internal/repository"
)

const sampleLabel = "Customer Address\nJane Doe\n12 Lane, Springfield, IL, 600011\nIf undelivered, return to\nOrder No. A_1\nOrder Date 01.02.2024\nDescription\nBlue Mug\nGross Amount\nRs 499\n"

// failingOrders rejects every insert the way a broken store would.
type failingOrders struct{ repository.OrderRepository }

func (failingOrders) Insert(context.Context, entity.Record) (int64, error) {
	return 0, common.DatabaseError("insert order", context.DeadlineExceeded)
}

type testDeps struct {
	proc     *processor.Processor
	exporter *export.Service
	orders   repository.OrderRepository
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	ctx := context.Background()
	_, orders, err := ConnectDB(ctx, common.DatabaseConfig{DSN: filepath.Join(t.TempDir(), "labels.db")}, nil)
	require.NoError(t, err)
	return depsWith(t, orders)
}

func depsWith(t *testing.T, orders repository.OrderRepository) testDeps {
	t.Helper()
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:        filepath.Join(t.TempDir(), "no-such-pdftotext"),
		ArtifactCacheDir: t.TempDir(),
	}, nil)
	proc := processor.NewProcessor(nil,
		textextract.NewPipeline(extract.NewOCRAdapter(extractor, nil), nil),
		parse.NewPipeline(nil),
		orders,
	)
	return testDeps{proc: proc, exporter: export.NewService(orders, nil), orders: orders}
}
