package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/repository"
)

const (
	SheetName = "Orders"
	// MaxCellText caps free-text cells so a runaway address or description stays readable.
	MaxCellText = 500
)

// Headers is the header row of the export, in column order.
var Headers = []string{
	"ID",
	"Name",
	"Address",
	"City",
	"State",
	"Pincode",
	"Order No",
	"Order Date",
	"Product Description",
	"Price",
}

// Service is a tiny façade over the order repository that produces XLSX bytes for exports.
type Service struct {
	orders repository.OrderRepository
	logger *slog.Logger
}

func NewService(orders repository.OrderRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{orders: orders, logger: logger}
}

// ExportOrdersXLSX returns a workbook with one row per saved order, newest first.
func (s *Service) ExportOrdersXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, common.WrapError(err, "query orders")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// rename the default sheet rather than leaving an empty "Sheet1" behind
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(SheetName, 1, 1, style)
	}

	for i, o := range orders {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(SheetName, cell, o.ID)
		for j, v := range o.Values() {
			cell, _ := excelize.CoordinatesToCellName(j+2, row)
			// strings, never numbers: pincodes and prices keep their exact text
			_ = f.SetCellStr(SheetName, cell, truncate(v, MaxCellText))
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "A", 8)  // id
	_ = f.SetColWidth(SheetName, "B", "B", 24) // name
	_ = f.SetColWidth(SheetName, "C", "C", 60) // address
	_ = f.SetColWidth(SheetName, "D", "E", 18) // city, state
	_ = f.SetColWidth(SheetName, "F", "H", 14) // pincode, order no, date
	_ = f.SetColWidth(SheetName, "I", "I", 48) // description
	_ = f.SetColWidth(SheetName, "J", "J", 16) // price

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.WrapError(err, "xlsx write")
	}

	s.logger.InfoContext(ctx, "export.xlsx.ok",
		"rows", len(orders),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
