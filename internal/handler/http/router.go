package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	// SessionCreateRPS limits session creation per client; zero disables it.
	SessionCreateRPS   float64
	SessionCreateBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cfg RouterConfig,
	cat Catalog,
	sessions *session.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.CorrelationHeader, middleware.VisitorHeader},
		ExposedHeaders:   []string{middleware.CorrelationHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Visitor)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(cat, logger)
	sessionHandler := NewSessionHandler(sessions, cat, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/search", catalogHandler.Search)
		r.Get("/slides", catalogHandler.ListSlides)
		r.Get("/home", catalogHandler.Home)
		r.Get("/categories", catalogHandler.ListCategories)

		r.Route("/sessions", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			if cfg.SessionCreateRPS > 0 {
				r.With(middleware.RateLimit(cfg.SessionCreateRPS, cfg.SessionCreateBurst, logger)).Post("/", sessionHandler.Create)
			} else {
				r.Post("/", sessionHandler.Create)
			}

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Close)
				r.Post("/events", sessionHandler.DispatchEvent)
				r.Get("/location", sessionHandler.Location)

				r.Get("/carousel", sessionHandler.Carousel)
				r.Post("/carousel/next", sessionHandler.CarouselNext)
				r.Post("/carousel/prev", sessionHandler.CarouselPrev)
				r.Post("/carousel/goto", sessionHandler.CarouselGoTo)
				r.Post("/carousel/interaction", sessionHandler.CarouselInteraction)

				r.Put("/search/query", sessionHandler.SetQuery)
				r.Get("/search/dropdown", sessionHandler.Dropdown)
				r.Post("/search/focus", sessionHandler.Focus)
				r.Post("/search/dismiss", sessionHandler.Dismiss)
				r.Post("/search/submit", sessionHandler.Submit)
				r.Post("/search/select", sessionHandler.Select)
				r.Get("/search/history", sessionHandler.History)
				r.Delete("/search/history", sessionHandler.ClearHistory)

				r.Get("/cart", sessionHandler.Cart)
				r.Post("/cart/items", sessionHandler.AddToCart)
				r.Delete("/cart/items/{index}", sessionHandler.RemoveFromCart)
				r.Delete("/cart", sessionHandler.ClearCart)

				r.Get("/notices", sessionHandler.Notices)
				r.Post("/notices/{noticeID}/undo", sessionHandler.Undo)

				r.Get("/wishlist", sessionHandler.Wishlist)
				r.Post("/wishlist/toggle", sessionHandler.ToggleWishlist)
				r.Delete("/wishlist/{productID}", sessionHandler.RemoveFromWishlist)
				r.Post("/wishlist/{productID}/move-to-cart", sessionHandler.MoveToCart)
			})
		})
	})

	return r
}
