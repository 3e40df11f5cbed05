package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/grocerystore/internal/hash"
	"github.com/Skotchmaster/grocerystore/internal/logging"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/repo"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	Products      bool
}

var sampleProducts = []struct {
	name  string
	price string
	qty   int
}{
	{"Apples", "2.99", 100},
	{"Bananas", "1.99", 150},
	{"Bread", "3.49", 50},
	{"Milk", "4.99", 75},
	{"Eggs", "5.99", 60},
	{"Chicken Breast", "12.99", 30},
	{"Rice", "8.99", 40},
	{"Pasta", "2.49", 80},
	{"Tomatoes", "3.99", 90},
	{"Onions", "2.79", 70},
}

// Run is safe to call on every start. Existing rows are left as they are.
func Run(ctx context.Context, r *repo.GormRepo, opts Options) error {
	l := logging.FromContext(ctx).With("component", "seed")

	var roles []models.Role
	for _, name := range []string{models.RoleUser, models.RoleAdmin} {
		role, err := r.EnsureRole(ctx, name)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}

	if opts.AdminEmail != "" {
		if err := ensureAdmin(ctx, r, opts, roles); err != nil {
			return err
		}
	}

	if !opts.Products {
		return nil
	}
	n, err := r.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if n > 0 {
		l.Debug("seed_products_skipped", "existing", n)
		return nil
	}

	products := make([]models.Product, 0, len(sampleProducts))
	for _, p := range sampleProducts {
		products = append(products, models.Product{Name: p.name, Price: decimal.RequireFromString(p.price), Quantity: p.qty})
	}
	if err := r.CreateProducts(ctx, products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	l.Info("seed_products_created", "count", len(products))
	return nil
}

func ensureAdmin(ctx context.Context, r *repo.GormRepo, opts Options, roles []models.Role) error {
	l := logging.FromContext(ctx).With("component", "seed")

	admin, err := r.UserByEmail(ctx, opts.AdminEmail)
	switch {
	case err == nil:
		// an existing account keeps its password; only missing roles are added
		return r.AddRoles(ctx, admin, roles...)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("seed admin: %w", err)
	}

	pwHash, err := hash.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	admin = &models.User{
		Name:         "Admin",
		Email:        opts.AdminEmail,
		PasswordHash: pwHash,
		Roles:        roles,
	}
	if err := r.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	l.Info("seed_admin_created", "email", opts.AdminEmail)
	return nil
}
