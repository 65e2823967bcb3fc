package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/zbpk/Samfolio-Hub/internal/auth"
	"github.com/zbpk/Samfolio-Hub/internal/config"
	"github.com/zbpk/Samfolio-Hub/internal/handlers"
	"github.com/zbpk/Samfolio-Hub/internal/httpx"
	"github.com/zbpk/Samfolio-Hub/internal/payments"
	"github.com/zbpk/Samfolio-Hub/internal/services"
	"github.com/zbpk/Samfolio-Hub/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
// provider may be nil, in which case the Stripe client is built from cfg.
func New(db *gorm.DB, cfg config.Config, provider payments.Provider) http.Handler {
	mux := http.NewServeMux()

	st := store.New(db)
	lifecycle := services.NewLifecycleService(st)
	finance := services.NewFinanceService(st)
	guard := auth.NewGuard(st, auth.NewMemoryTokenStore(), cfg.AdminPassword)
	if provider == nil {
		provider = payments.NewStripeProvider(cfg.StripeSecretKey)
	}
	checkout := payments.NewCheckoutService(st, provider, cfg.BaseURL)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check; detailed errors stay out of the body.
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handlers.NewPublicHandler(st, lifecycle).Register(mux)
	handlers.NewCheckoutHandler(checkout, cfg.StripePublishableKey).Register(mux)
	handlers.NewAdminHandler(st, lifecycle, finance, guard).Register(mux)

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[PANIC] %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
