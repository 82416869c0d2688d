package routes

import (
	"velour/auth"
	"velour/cart"
	"velour/catalog"
	"velour/live"
	"velour/middleware"
	"velour/orders"
	"velour/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	// No Authenticate wrapper: the access token is typically expired
	// when rotation happens; the refresh token itself is the credential.
	router.POST("/api/auth/token/refresh", rateLimiter.Limit(auth.RefreshToken))
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddCatalogRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/products", rateLimiter.Limit(catalog.ListProducts))
	router.GET("/api/products/:id", rateLimiter.Limit(catalog.GetProduct))

	router.POST("/api/products", middleware.Authenticate(catalog.CreateProduct))
	router.PUT("/api/products/:id", middleware.Authenticate(catalog.UpdateProduct))
	router.POST("/api/products/:id/images", middleware.Authenticate(catalog.UploadProductImage))
}

// Cart routes run behind OptionalAuth so guest carts (X-Guest-Cart
// header) and signed-in carts share the same handlers.
func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.OptionalAuth(rateLimiter.Limit(cart.GetCart)))
	router.POST("/api/cart", middleware.OptionalAuth(rateLimiter.Limit(cart.AddToCart)))
	router.PUT("/api/cart/:itemId", middleware.OptionalAuth(rateLimiter.Limit(cart.UpdateCartItem)))
	router.DELETE("/api/cart/:itemId", middleware.OptionalAuth(rateLimiter.Limit(cart.RemoveCartItem)))
	router.DELETE("/api/cart", middleware.OptionalAuth(rateLimiter.Limit(cart.ClearCart)))

	router.POST("/api/cart/promo", middleware.OptionalAuth(rateLimiter.Limit(cart.ValidatePromoHandler)))
}

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/orders", middleware.Authenticate(rateLimiter.Limit(orders.PlaceOrder)))
	router.GET("/api/orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/:id", middleware.Authenticate(orders.GetOrder))
	router.POST("/api/orders/:id/cancel", middleware.Authenticate(orders.CancelOrder))
	router.GET("/api/orders/:id/receipt", middleware.Authenticate(orders.OrderReceipt))

	router.PUT("/api/orders/:id/status", middleware.Authenticate(orders.UpdateOrderStatus))
}

func AddLiveRoutes(router *httprouter.Router) {
	router.GET("/api/products/:id/live", live.SubscribeStock)
}

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddCatalogRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter)
	AddLiveRoutes(router)
}
