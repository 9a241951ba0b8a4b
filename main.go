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

	"dukaan/db"
	"dukaan/favorites"
	"dukaan/orders"
	"dukaan/products"
	"dukaan/ratelim"
	"dukaan/rdx"
	"dukaan/routes"
	"dukaan/wanotify"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
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

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStartup()

	if err := db.Connect(startupCtx); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := db.EnsureIndexes(startupCtx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := rdx.Init(startupCtx); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// wire the order pipeline
	linkBuilder := wanotify.LinkBuilder{Operator: os.Getenv("WHATSAPP_NUMBER")}
	dispatcher := wanotify.NewDispatcher(rdx.Conn)
	catalog := products.NewCatalog(db.ProductsCollection)
	orderSvc := orders.NewService(
		orders.NewMongoRepo(db.OrdersCollection),
		catalog,
		db.NextOrderSeq,
		linkBuilder.Build,
		dispatcher,
	)

	rateLimiter := ratelim.NewRateLimiter(5, 10)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddOrderRoutes(router, rateLimiter, orders.NewHandler(orderSvc))
	routes.AddProductRoutes(router, products.NewHandler(catalog))
	routes.AddFavoriteRoutes(router, rateLimiter, favorites.NewHandler(rdx.Conn))

	// background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	go dispatcher.StartWorker(workerCtx, db.DispatchesCollection)
	go favorites.FlushWorker(workerCtx, rdx.Conn, db.ProductsCollection)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
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

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	if err := db.Client.Disconnect(ctx); err != nil {
		log.Println("Mongo disconnect error:", err)
	}

	log.Println("Server stopped cleanly")
}
