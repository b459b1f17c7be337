package routes

import (
	"net/http"

	"brewhaus/auth"
	"brewhaus/cart"
	"brewhaus/catalog"
	"brewhaus/checkout"
	"brewhaus/middleware"
	"brewhaus/notify"
	"brewhaus/orders"
	"brewhaus/ratelim"
	"brewhaus/tracking"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/menupic/*filepath", http.Dir("static/menupic"))
}

// AddCatalogRoutes serves the public storefront content. Reads are not
// rate limited and never hard-fail: stale cache or the compiled fallback
// dataset stands in when the admin API is down.
func AddCatalogRoutes(router *httprouter.Router, h *catalog.Handlers) {
	router.GET("/api/public/menu", h.Content("/api/public/menu", catalog.FallbackMenu))
	router.GET("/api/public/signature-drinks", h.Content("/api/public/signature-drinks", catalog.FallbackSignatureDrinks))
	router.GET("/api/public/about", h.Content("/api/public/about", catalog.FallbackAbout))
	router.GET("/api/public/contact", h.Content("/api/public/contact", catalog.FallbackContact))
	router.GET("/api/home-content", h.Content("/api/home-content", catalog.FallbackHomeContent))
	router.GET("/api/display-settings", h.Content("/api/display-settings", catalog.FallbackDisplaySettings))
	router.GET("/api/highlight-cards", h.Content("/api/highlight-cards", catalog.FallbackHighlightCards))
	router.GET("/api/coffee-history", h.Content("/api/coffee-history", catalog.FallbackCoffeeHistory))
	router.GET("/api/coffee-facts", h.Content("/api/coffee-facts", catalog.FallbackCoffeeFacts))
	router.GET("/api/assets/menu/:file", h.MenuImage)
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handlers) {
	router.GET("/api/cart", middleware.WithSession(h.GetCart))
	router.POST("/api/cart/items", middleware.WithSession(h.AddItem))
	router.PATCH("/api/cart/items/:itemid", middleware.WithSession(h.UpdateQuantity))
	router.DELETE("/api/cart/items/:itemid", middleware.WithSession(h.RemoveItem))
	router.DELETE("/api/cart", middleware.WithSession(h.ClearCart))
}

func AddCheckoutRoutes(router *httprouter.Router, h *checkout.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/checkout", rl.Limit(middleware.WithSession(checkout.Idempotent(h.PlaceOrder))))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handlers) {
	router.GET("/api/orders", middleware.WithSession(h.ListOrders))
	router.GET("/api/orders/confirmation", middleware.WithSession(h.Confirmation))
	// receipt sits under its own prefix so the :ordernumber segment does
	// not collide with the static confirmation route
	router.GET("/api/orders/receipt/:ordernumber", middleware.WithSession(h.Receipt))
}

func AddTrackingRoutes(router *httprouter.Router, h *tracking.Handlers) {
	router.GET("/api/order-tracking", middleware.Authenticate(h.GetTracking))
	router.POST("/api/order-tracking/confirm", middleware.Authenticate(h.ConfirmDelivered))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(middleware.WithSession(h.Register)))
	router.POST("/api/auth/login", rl.Limit(middleware.WithSession(h.Login)))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
}

func AddNotifyRoutes(router *httprouter.Router, h *notify.Handlers) {
	router.GET("/api/notifications/ws", middleware.WithSession(h.Events))
	router.GET("/api/notifications/prefs", middleware.WithSession(h.GetPrefs))
	router.PUT("/api/notifications/prefs", middleware.WithSession(h.UpdatePrefs))
}
