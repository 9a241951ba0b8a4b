package routes

import (
	"dukaan/favorites"
	"dukaan/middleware"
	"dukaan/orders"
	"dukaan/products"
	"dukaan/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *orders.Handler) {
	admin := middleware.Chain(rl.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))

	router.POST("/api/orders", rl.Limit(h.CreateOrder))
	router.POST("/api/orders/sync", rl.Limit(h.SyncOrders))
	router.GET("/api/orders/:id/status", h.GetOrderStatus)

	router.GET("/api/orders", admin(h.ListOrders))
	router.GET("/api/orders/:id", admin(h.GetOrder))
	router.GET("/api/orders/:id/receipt", admin(h.PrintReceipt))
	router.PATCH("/api/orders/:id/status", admin(h.UpdateOrderStatus))
	router.PATCH("/api/orders/:id/cancel", admin(h.CancelOrder))
	router.PATCH("/api/orders/:id/customer", admin(h.UpdateOrderCustomer))
}

func AddProductRoutes(router *httprouter.Router, h *products.Handler) {
	router.GET("/api/products/:id", h.GetProduct)
}

func AddFavoriteRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *favorites.Handler) {
	router.POST("/api/favorites/:productId", rl.Limit(h.Increment))
	router.DELETE("/api/favorites/:productId", rl.Limit(h.Decrement))
}
