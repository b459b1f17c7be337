package routes

import (
	"brewhaus/auth"
	"brewhaus/cart"
	"brewhaus/catalog"
	"brewhaus/checkout"
	"brewhaus/notify"
	"brewhaus/orders"
	"brewhaus/ratelim"
	"brewhaus/tracking"

	"github.com/julienschmidt/httprouter"
)

// Deps carries every handler group the router mounts.
type Deps struct {
	Catalog  *catalog.Handlers
	Cart     *cart.Handlers
	Checkout *checkout.Handlers
	Orders   *orders.Handlers
	Tracking *tracking.Handlers
	Auth     *auth.Handlers
	Notify   *notify.Handlers
}

func RoutesWrapper(router *httprouter.Router, deps Deps, rateLimiter *ratelim.RateLimiter) {
	AddStaticRoutes(router)
	AddCatalogRoutes(router, deps.Catalog)
	AddCartRoutes(router, deps.Cart)
	AddCheckoutRoutes(router, deps.Checkout, rateLimiter)
	AddOrderRoutes(router, deps.Orders)
	AddTrackingRoutes(router, deps.Tracking)
	AddAuthRoutes(router, deps.Auth, rateLimiter)
	AddNotifyRoutes(router, deps.Notify)
}
