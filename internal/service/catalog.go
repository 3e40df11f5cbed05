package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/grocerystore/internal/events"
	"github.com/Skotchmaster/grocerystore/internal/logging"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/search"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

const indexTimeout = 5 * time.Second

type CatalogService struct {
	Products ProductStore
	Index    search.Index
	Events   events.Publisher
}

func productSubject(id uint) string {
	return fmt.Sprintf("product %d", id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	items, err := s.Products.ListProducts(ctx)
	if err != nil {
		return nil, storageErr(err, "products")
	}
	return items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		return nil, storageErr(err, productSubject(id))
	}
	return p, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, name string) ([]models.Product, error) {
	items, err := s.Products.SearchProducts(ctx, name)
	if err != nil {
		return nil, storageErr(err, "products")
	}
	return items, nil
}

func validateProduct(req transport.ProductRequest) error {
	switch {
	case req.Name == nil || req.Price == nil || req.Quantity == nil:
		return invalid("name, price and quantity are required")
	case strings.TrimSpace(*req.Name) == "":
		return invalid("name must not be empty")
	case req.Price.IsNegative():
		return invalid("price must be >= 0")
	case !req.Price.Equal(req.Price.Round(2)):
		return invalid("price must have at most two decimal places")
	case *req.Quantity < 0:
		return invalid("quantity must be >= 0")
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	p := &models.Product{Name: *req.Name, Price: *req.Price, Quantity: *req.Quantity}
	if err := s.Products.CreateProduct(ctx, p); err != nil {
		return nil, storageErr(err, "product "+p.Name)
	}

	s.mirror(ctx, *p)
	s.emit(ctx, events.TypeProductCreated, *p)
	return p, nil
}

// UpdateProduct overwrites every field; partial updates are rejected.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	p, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		return nil, storageErr(err, productSubject(id))
	}

	p.Name, p.Price, p.Quantity = *req.Name, *req.Price, *req.Quantity
	if err := s.Products.SaveProduct(ctx, p); err != nil {
		return nil, storageErr(err, productSubject(id))
	}

	s.mirror(ctx, *p)
	s.emit(ctx, events.TypeProductUpdated, *p)
	return p, nil
}

// DeleteProduct checks existence first so a missing id never reaches a
// storage write. Order items keep their own snapshot of the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.Products.GetProduct(ctx, id); err != nil {
		return storageErr(err, productSubject(id))
	}
	if err := s.Products.DeleteProduct(ctx, id); err != nil {
		return storageErr(err, productSubject(id))
	}

	if s.Index != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
		defer cancel()
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_index_error", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProducts, events.Key(id), events.ProductChanged{
		Type:      events.TypeProductDeleted,
		ProductID: id,
	})
	return nil
}

func (s *CatalogService) mirror(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	defer cancel()
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) emit(ctx context.Context, typ string, p models.Product) {
	events.Emit(ctx, s.Events, events.TopicProducts, events.Key(p.ID), events.ProductChanged{
		Type:      typ,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     &p.Price,
		Quantity:  &p.Quantity,
	})
}
