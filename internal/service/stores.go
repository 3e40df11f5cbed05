package service

import (
	"context"

	"github.com/Skotchmaster/grocerystore/internal/models"
)

type UserFinder interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type UserStore interface {
	UserFinder
	RoleByName(ctx context.Context, name string) (*models.Role, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, u *models.User) error
	SearchUsersByName(ctx context.Context, name string) ([]models.User, error)
}

type ProductFinder interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

type ProductStore interface {
	ProductFinder
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, name string) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
}
