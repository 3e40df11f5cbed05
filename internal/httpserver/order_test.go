package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/grocerystore/internal/models"
)

func orderBody(items ...[2]uint) map[string]any {
	list := make([]map[string]uint, 0, len(items))
	for _, it := range items {
		list = append(list, map[string]uint{"productId": it[0], "quantity": it[1]})
	}
	return map[string]any{"items": list}
}

func TestOrders_PlaceAndRead(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, adminEmail, adminPassword)
	apples := env.createProduct(t, admin, map[string]any{"name": "Apples", "price": 2.99, "quantity": 100})
	ann := env.registerAndLogin(t, "Ann", "ann@x.com")

	rec := env.do(t, http.MethodPost, "/api/orders", orderBody([2]uint{apples.ID, 2}), ann)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decode[models.Order](t, rec)
	assert.Equal(t, "5.98", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "2.99", order.Items[0].Price.StringFixed(2))
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, apples.ID, order.Items[0].ProductID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodPost, "/api/orders", orderBody([2]uint{apples.ID, 1}), ann)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[models.Order](t, rec)

	rec = env.do(t, http.MethodGet, "/api/orders/my-history", nil, ann)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]models.Order](t, rec)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, order.ID, history[1].ID)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, ann)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.ID, decode[models.Order](t, rec).ID)
}

func TestOrders_OwnershipAndMissing(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, adminEmail, adminPassword)
	apples := env.createProduct(t, admin, map[string]any{"name": "Apples", "price": 2.99, "quantity": 100})
	ann := env.registerAndLogin(t, "Ann", "ann@x.com")
	bob := env.registerAndLogin(t, "Bob", "bob@x.com")

	rec := env.do(t, http.MethodPost, "/api/orders", orderBody([2]uint{apples.ID, 1}), ann)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[models.Order](t, rec)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", errMessage(t, rec))

	rec = env.do(t, http.MethodGet, "/api/orders/9999", nil, ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/orders/my-history", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Order](t, rec))
}

func TestOrders_RejectsBadRequests(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, adminEmail, adminPassword)
	apples := env.createProduct(t, admin, map[string]any{"name": "Apples", "price": 2.99, "quantity": 100})
	ann := env.registerAndLogin(t, "Ann", "ann@x.com")

	rec := env.do(t, http.MethodPost, "/api/orders", orderBody([2]uint{apples.ID, 1}, [2]uint{4242, 1}), ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errMessage(t, rec), "Failed to place order")
	assert.Contains(t, errMessage(t, rec), "product 4242 not found")

	rec = env.do(t, http.MethodPost, "/api/orders", orderBody(), ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/orders", orderBody([2]uint{apples.ID, 10001}), ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errMessage(t, rec), "quantity must be at most")

	rec = env.do(t, http.MethodGet, "/api/orders/my-history", nil, ann)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Order](t, rec))

	for _, path := range []string{"/api/orders", "/api/orders/my-history"} {
		method := http.MethodGet
		if path == "/api/orders" {
			method = http.MethodPost
		}
		assert.Equal(t, http.StatusForbidden, env.do(t, method, path, orderBody([2]uint{apples.ID, 1}), "").Code)
	}
}
