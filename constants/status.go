package constants

// FieldStatus records how a single label field was recovered.
type FieldStatus string

// Stable values (exposed over HTTP/gRPC, keep these exact strings).
const (
	FieldMatched  FieldStatus = "MATCHED"  // primary anchor or pattern hit
	FieldFallback FieldStatus = "FALLBACK" // positional heuristic produced the value
	FieldMissing  FieldStatus = "MISSING"  // nothing recovered, value is ""
)

// Record field names, in table column order.
const (
	FieldName               = "name"
	FieldAddress            = "address"
	FieldCity               = "city"
	FieldState              = "state"
	FieldPincode            = "pincode"
	FieldOrderNo            = "order_no"
	FieldOrderDate          = "order_date"
	FieldProductDescription = "product_description"
	FieldPrice              = "price"
)

// RecordFields lists every record field in column order.
var RecordFields = []string{
	FieldName,
	FieldAddress,
	FieldCity,
	FieldState,
	FieldPincode,
	FieldOrderNo,
	FieldOrderDate,
	FieldProductDescription,
	FieldPrice,
}
