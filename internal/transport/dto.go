package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/grocerystore/internal/models"
)

type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ProductRequest is used for both create and full update. A nil field means
// the client left it out.
type ProductRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
}

type OrderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type UpdateProfileRequest struct {
	Name          *string `json:"name"`
	Address       *string `json:"address"`
	ContactNumber *string `json:"contactNumber"`
	Password      string  `json:"password"`
}

type UserSummary struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	ContactNumber string   `json:"contactNumber"`
	Roles         []string `json:"roles,omitempty"`
}

func NewUserSummary(u models.User) UserSummary {
	return UserSummary{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Address:       u.Address,
		ContactNumber: u.ContactNumber,
		Roles:         u.RoleNames(),
	}
}

func NewUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserSummary(u))
	}
	return out
}

type MessageResponse struct {
	Message string `json:"message"`
}
