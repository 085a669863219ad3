package repository

import (
	"context"
	"math"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/joseph-ayodele/label-tracker/constants"
)

// OrdersTable is the single table holding saved label records.
const OrdersTable = "orders"

// ordersTable describes the orders table: an auto-increment id followed by one
// NOT NULL text column per record field, defaulting to "".
func ordersTable() *schema.Table {
	t := schema.NewTable(OrdersTable).AddPrimary(&schema.Column{
		Name:      "id",
		Type:      field.TypeInt64,
		Increment: true,
	})
	for _, name := range constants.RecordFields {
		t.AddColumn(&schema.Column{
			Name:    name,
			Type:    field.TypeString,
			Size:    math.MaxInt32, // render as TEXT rather than varchar(255)
			Default: "",
		})
	}
	return t
}

// Migrate creates the orders table if it is missing. It is append-only and safe to
// run on every start.
func Migrate(ctx context.Context, db *DB) error {
	m, err := schema.NewMigrate(db.Driver)
	if err != nil {
		return err
	}
	return m.Create(ctx, ordersTable())
}
