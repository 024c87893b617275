package cart

import (
	"time"
)

// Cart mirrors the upstream cart resource. A published snapshot is a value:
// once handed to observers it is never mutated again.
type Cart struct {
	ID          string    `json:"id"`
	UserID      string    `json:"appUserId"`
	Items       []Item    `json:"cartItems"`
	TotalAmount int       `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdOn"`
}

type Item struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int    `json:"unitPrice"`
	TotalPrice int    `json:"totalPrice"`
}

type CartNew struct {
	AppUserID string `json:"appUserId"`
	CreatedBy string `json:"createdBy"`
}

type ItemNew struct {
	CartID     string `json:"cartId"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int    `json:"unitPrice"`
	TotalPrice int    `json:"totalPrice"`
	CreatedBy  string `json:"createdBy"`
}

type ItemUp struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func (c Cart) clone() Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

func (c Cart) total() int {
	var t int
	for _, it := range c.Items {
		t += it.TotalPrice
	}
	return t
}
