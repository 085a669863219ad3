package entity

// Record is the structured data recovered from one shipping label.
// Every field is a plain string; "" means the field was not found.
type Record struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	City               string `json:"city"`
	State              string `json:"state"`
	Pincode            string `json:"pincode"`
	OrderNo            string `json:"order_no"`
	OrderDate          string `json:"order_date"`
	ProductDescription string `json:"product_description"`
	Price              string `json:"price"`
}

// Order is a persisted Record plus its store-assigned surrogate id.
type Order struct {
	ID int64 `json:"id"`
	Record
}

// FieldPtr returns a pointer to the named field ("name", "order_no", ...), or nil for unknown names.
func (r *Record) FieldPtr(field string) *string {
	switch field {
	case "name":
		return &r.Name
	case "address":
		return &r.Address
	case "city":
		return &r.City
	case "state":
		return &r.State
	case "pincode":
		return &r.Pincode
	case "order_no":
		return &r.OrderNo
	case "order_date":
		return &r.OrderDate
	case "product_description":
		return &r.ProductDescription
	case "price":
		return &r.Price
	}
	return nil
}

// Get returns the value of the named field, or "" for unknown names.
func (r Record) Get(field string) string {
	if p := r.FieldPtr(field); p != nil {
		return *p
	}
	return ""
}

// Set assigns the named field. Unknown names are ignored and reported as false.
func (r *Record) Set(field, value string) bool {
	p := r.FieldPtr(field)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Values returns the field values in table column order.
func (r Record) Values() []string {
	return []string{
		r.Name,
		r.Address,
		r.City,
		r.State,
		r.Pincode,
		r.OrderNo,
		r.OrderDate,
		r.ProductDescription,
		r.Price,
	}
}
