package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/repo"
	"github.com/Skotchmaster/grocerystore/internal/tokens"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

type published struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

type recordingIndex struct {
	indexed []models.Product
	deleted []uint
	err     error
}

func (x *recordingIndex) IndexProduct(_ context.Context, p models.Product) error {
	x.indexed = append(x.indexed, p)
	return x.err
}

func (x *recordingIndex) DeleteProduct(_ context.Context, id uint) error {
	x.deleted = append(x.deleted, id)
	return x.err
}

type testEnv struct {
	repo    *repo.GormRepo
	events  *recordingPublisher
	index   *recordingIndex
	tokens  *tokens.Service
	auth    *AuthService
	catalog *CatalogService
	orders  *OrderService
	users   *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	r := repo.New(db)
	for _, name := range []string{models.RoleUser, models.RoleAdmin} {
		_, err := r.EnsureRole(context.Background(), name)
		require.NoError(t, err)
	}

	pub := &recordingPublisher{}
	idx := &recordingIndex{}
	tok := tokens.New([]byte("test-jwt-secret"), time.Hour)

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &testEnv{
		repo:    r,
		events:  pub,
		index:   idx,
		tokens:  tok,
		auth:    &AuthService{Users: r, Tokens: tok, Events: pub},
		catalog: &CatalogService{Products: r, Index: idx, Events: pub},
		orders: &OrderService{Users: r, Products: r, Orders: r, Events: pub, Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}},
		users: &UserService{Users: r},
	}
}

func (e *testEnv) register(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), transport.RegisterRequest{
		Name: name, Email: email, Password: password, Address: "Addr", ContactNumber: "555",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) product(t *testing.T, name, price string, qty int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
	require.NoError(t, e.repo.CreateProduct(context.Background(), p))
	return p
}

func productReq(name, price string, qty int) transport.ProductRequest {
	d := decimal.RequireFromString(price)
	return transport.ProductRequest{Name: &name, Price: &d, Quantity: &qty}
}

func ptr[T any](v T) *T { return &v }

var errBoom = errors.New("boom")
