package order

import "time"

type Status string

const (
	Pending    Status = "Pending"
	Processing Status = "Processing"
	Shipped    Status = "Shipped"
	Delivered  Status = "Delivered"
	Cancelled  Status = "Cancelled"
)

// Order is owned by the upstream commerce API; the storefront only ever
// consumes it by id after creation.
type Order struct {
	ID              string    `json:"id"`
	UserID          string    `json:"appUserId"`
	ShippingAddress string    `json:"shippingAddress"`
	Status          Status    `json:"status"`
	Items           []Item    `json:"orderItems"`
	TotalAmount     int       `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdOn"`
}

type Item struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unitPrice"`
}

type OrderNew struct {
	ShippingAddress string `json:"shippingAddress"`
	CreatedBy       string `json:"createdBy"`
}
