package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/grocerystore/internal/middleware/auth"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/service"
)

type Deps struct {
	Auth    *service.AuthService
	Catalog *service.CatalogService
	Orders  *service.OrderService
	Users   *service.UserService
	Tokens  authmw.TokenChecker

	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authH := &AuthHTTP{Svc: d.Auth}
	catalogH := &CatalogHTTP{Svc: d.Catalog}
	orderH := &OrderHTTP{Svc: d.Orders}
	userH := &UserHTTP{Svc: d.Users}

	api := e.Group("/api", authmw.AccessFilter(d.Tokens, d.Users))

	authG := api.Group("/auth")
	authG.POST("/register", authH.Register)
	authG.POST("/login", authH.Login)

	products := api.Group("/products")
	products.GET("", catalogH.GetProducts)
	products.GET("/search", catalogH.SearchProducts)
	products.GET("/:id", catalogH.GetProduct)

	admin := api.Group("/admin", authmw.RequireRole(models.RoleAdmin))
	admin.GET("/products", catalogH.GetProducts)
	admin.POST("/products", catalogH.CreateProduct)
	admin.PUT("/products/:id", catalogH.UpdateProduct)
	admin.DELETE("/products/:id", catalogH.DeleteProduct)
	admin.GET("/users/search", userH.SearchUsers)

	orders := api.Group("/orders", authmw.RequireRole(models.RoleUser))
	orders.POST("", orderH.CreateOrder)
	orders.GET("/my-history", orderH.MyHistory)
	orders.GET("/:id", orderH.GetOrder)

	me := api.Group("/users/me", authmw.RequireRole(models.RoleUser))
	me.GET("", userH.Me)
	me.PUT("", userH.UpdateMe)
}
