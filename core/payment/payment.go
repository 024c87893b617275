package payment

type Method string

const (
	Card   Method = "Card"
	Paypal Method = "Paypal"
)

type Status string

const (
	Pending   Status = "Pending"
	Completed Status = "Completed"
	Failed    Status = "Failed"
)

// Payment is created before any hosted payment session exists, so a record
// with no completed transaction is a legitimate pending state.
type Payment struct {
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	Method      Method `json:"paymentMethod"`
	Status      Status `json:"status"`
	TotalAmount int    `json:"totalAmount"`
	CreatedBy   string `json:"createdBy"`
}

type PaymentNew struct {
	OrderID     string `json:"orderId"`
	Method      Method `json:"paymentMethod"`
	TotalAmount int    `json:"totalAmount"`
	CreatedBy   string `json:"createdBy"`
}

// Session is the hosted payment session the user is redirected to. The URL
// is opaque to the storefront.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type SessionNew struct {
	OrderID string `json:"orderId"`
}
