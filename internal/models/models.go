package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

type User struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Email         string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash  string    `gorm:"not null"                 json:"-"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contactNumber"`
	Roles         []Role    `gorm:"many2many:user_roles;"    json:"-"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// RoleNames returns the names of the roles held by u in lexical order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

type Product struct {
	ID       uint            `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name     string          `gorm:"not null;index"                 json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"    json:"price"`
	Quantity int             `gorm:"not null;check:quantity >= 0"   json:"quantity"`
}

// Order is written once by the order workflow and never updated.
type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID      uint            `gorm:"index;not null"              json:"userId"`
	User        *User           `json:"-"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"          json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalAmount"`
	OrderDate   time.Time       `gorm:"index;not null"              json:"orderDate"`
}

// OrderItem keeps the product id plus a snapshot of name and unit price taken
// when the order was placed. The product row may later change or disappear.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID     uint            `gorm:"index;not null"              json:"-"`
	ProductID   uint            `gorm:"index;not null"              json:"productId"`
	ProductName string          `gorm:"not null"                    json:"productName"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func All() []any {
	return []any{&Role{}, &User{}, &Product{}, &Order{}, &OrderItem{}}
}
