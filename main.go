package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewhaus/adminapi"
	"brewhaus/auth"
	"brewhaus/cart"
	"brewhaus/catalog"
	"brewhaus/checkout"
	"brewhaus/db"
	"brewhaus/docstore"
	"brewhaus/notify"
	"brewhaus/orders"
	"brewhaus/ratelim"
	"brewhaus/rdx"
	"brewhaus/routes"
	"brewhaus/tracking"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	// read port
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// session documents live in Redis; when it is down at startup the
	// storefront limps along on process memory so browsing still works
	var docs docstore.Store
	if err := rdx.Init(); err != nil {
		log.Println("⚠️ Redis unavailable; session storage is in-memory for this run")
		docs = docstore.NewMemStore()
	} else {
		docs = docstore.NewRedisStore(rdx.Conn)
	}

	// Mongo backs the pending-order queue, customer mirror and
	// idempotency records; all three degrade to no-ops without it
	if err := db.Init(rootCtx); err != nil {
		log.Printf("⚠️ MongoDB unavailable: %v", err)
	} else if err := checkout.InitIdempotencyIndexes(rootCtx); err != nil {
		log.Printf("idempotency index setup failed: %v", err)
	}

	admin := adminapi.New()
	rateLimiter := ratelim.NewRateLimiter()
	advisor := notify.Advisor{}

	cartStore := cart.NewStore(docs)
	orderStore := orders.NewStore(docs)
	pipeline := checkout.NewPipeline(cartStore, orderStore, admin, orders.MongoPendingQueue{}, advisor)
	tracker := tracking.NewTracker(admin, auth.TokenStore{})

	hub := notify.NewHub()
	go hub.Run()
	go notify.Subscribe(rootCtx, hub)

	syncWorker := orders.NewSyncWorker(admin, orderStore, advisor)
	go syncWorker.Run(rootCtx)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.RoutesWrapper(router, routes.Deps{
		Catalog:  catalog.NewHandlers(admin, docs),
		Cart:     cart.NewHandlers(cartStore),
		Checkout: checkout.NewHandlers(pipeline, docs),
		Orders:   orders.NewHandlers(orderStore, admin),
		Tracking: tracking.NewHandlers(tracker, docs),
		Auth:     auth.NewHandlers(admin),
		Notify:   &notify.Handlers{Hub: hub, Store: docs},
	}, rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Session-ID", "Idempotency-Key"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down notification hub...")
		hub.Stop()
		rootCancel()
		db.Close(context.Background())
	})

	go func() {
		log.Printf("🚀 Storefront listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
