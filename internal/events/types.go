package events

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	TypeUserRegistered = "user_registered"
	TypeProductCreated = "product_created"
	TypeProductUpdated = "product_updated"
	TypeProductDeleted = "product_deleted"
	TypeOrderPlaced    = "order_placed"
)

type UserRegistered struct {
	Type   string `json:"type"`
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type ProductChanged struct {
	Type      string           `json:"type"`
	ProductID uint             `json:"productId"`
	Name      string           `json:"name,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
}

type OrderPlaced struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"orderId"`
	UserID      uint            `json:"userId"`
	Email       string          `json:"email"`
	Items       int             `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func Key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
