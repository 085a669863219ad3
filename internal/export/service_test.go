package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
)

type stubOrders struct {
	orders []*entity.Order
	err    error
}

func (s stubOrders) Init(context.Context) error { return nil }
func (s stubOrders) Insert(context.Context, entity.Record) (int64, error) { return 0, nil }
func (s stubOrders) ListAll(context.Context) ([]*entity.Order, error) { return s.orders, s.err }
func (s stubOrders) Count(context.Context) (int, error) { return len(s.orders), s.err }

func TestExportOrdersXLSX(t *testing.T) {
	orders := []*entity.Order{
		{ID: 2, Record: entity.Record{Name: "John", Pincode: "011001", Price: "Rs 1,299.00"}},
		{ID: 1, Record: entity.Record{Name: "Jane", ProductDescription: strings.Repeat("x", MaxCellText+10)}},
	}
	svc := NewService(stubOrders{orders: orders}, nil)

	data, err := svc.ExportOrdersXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])

	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "John", rows[1][1])
	assert.Equal(t, "011001", rows[1][5], "leading zeros survive")
	assert.Equal(t, "Rs 1,299.00", rows[1][9])

	assert.Equal(t, "1", rows[2][0])
	desc := []rune(rows[2][8])
	assert.Len(t, desc, MaxCellText)
	assert.Equal(t, '…', desc[len(desc)-1])
}

func TestExportOrdersXLSX_Empty(t *testing.T) {
	data, err := NewService(stubOrders{}, nil).ExportOrdersXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportOrdersXLSX_ListError(t *testing.T) {
	_, err := NewService(stubOrders{err: errors.New("boom")}, nil).ExportOrdersXLSX(context.Background())
	assert.ErrorContains(t, err, "query orders")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "a", truncate("abcd", 1))
	assert.Equal(t, "héllo", truncate("héllo", 0))
}
