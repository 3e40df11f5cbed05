package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/grocerystore/internal/events"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/repo"
	"github.com/Skotchmaster/grocerystore/internal/search"
	"github.com/Skotchmaster/grocerystore/internal/seed"
	"github.com/Skotchmaster/grocerystore/internal/service"
	"github.com/Skotchmaster/grocerystore/internal/tokens"
)

const (
	adminEmail    = "admin@grocery.com"
	adminPassword = "admin123"
)

type testEnv struct {
	e    *echo.Echo
	repo *repo.GormRepo
	deps *Deps
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
	require.NoError(t, seed.Run(context.Background(), r, seed.Options{
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}))

	tok := tokens.New([]byte("test-jwt-secret"), time.Hour)
	pub := events.Nop{}
	deps := &Deps{
		Auth:    &service.AuthService{Users: r, Tokens: tok, Events: pub},
		Catalog: &service.CatalogService{Products: r, Index: search.Nop{}, Events: pub},
		Orders:  &service.OrderService{Users: r, Products: r, Orders: r, Events: pub},
		Users:   &service.UserService{Users: r},
		Tokens:  tok,
		Ready:   func(context.Context) error { return sqlDB.Ping() },
	}

	e := echo.New()
	Register(e, deps)
	return &testEnv{e: e, repo: r, deps: deps}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["message"]
}

func (env *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]string](t, rec)["token"]
}

func (env *testEnv) registerAndLogin(t *testing.T, name, email string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "pw", "address": "Addr", "contactNumber": "555",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return env.login(t, email, "pw")
}

func (env *testEnv) createProduct(t *testing.T, adminToken string, body any) models.Product {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/admin/products", body, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.Product](t, rec)
}

var errNotReady = errors.New("db down")
