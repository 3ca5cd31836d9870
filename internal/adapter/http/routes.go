package http

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	Customers *CustomerHandler
	Payments  *PaymentHandler
	Analytics *AnalyticsHandler
}

// Register mounts the API. mutating wraps every write route, typically with
// the idempotency middleware.
func Register(e *echo.Echo, h Handlers, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := e.Group("/api")
	api.GET("/health", h.Health.Health)

	api.GET("/customers", h.Customers.ListCustomers)
	api.GET("/customers/:customer_id", h.Customers.GetCustomer)
	api.POST("/customer/lookup", h.Customers.Lookup)
	api.GET("/analytics", h.Analytics.Summary)

	api.POST("/customers", h.Customers.CreateCustomer, mutating...)
	api.PUT("/customers/:customer_id", h.Customers.UpdateCustomer, mutating...)
	api.DELETE("/customers/:customer_id", h.Customers.DeleteCustomer, mutating...)
	api.POST("/customers/:customer_id/payments", h.Payments.AddPayment, mutating...)
	api.DELETE("/customers/:customer_id/payments/:date", h.Payments.DeletePayment, mutating...)
}
