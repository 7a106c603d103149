package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arleipolo/storefront-backend/api/controllers"
	"github.com/arleipolo/storefront-backend/api/middleware"
	authsvc "github.com/arleipolo/storefront-backend/internal/auth"
	contactsvc "github.com/arleipolo/storefront-backend/internal/contact"
	mediasvc "github.com/arleipolo/storefront-backend/internal/media"
	productsvc "github.com/arleipolo/storefront-backend/internal/products"
	remindersvc "github.com/arleipolo/storefront-backend/internal/reminder"
	"github.com/arleipolo/storefront-backend/pkg/config"
	"github.com/arleipolo/storefront-backend/pkg/logger"
)

// Services bundles everything the router exposes over HTTP.
type Services struct {
	Auth     authsvc.Service
	Products productsvc.Service
	Contact  contactsvc.Service
	Reminder remindersvc.Service
	Media    mediasvc.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	svcs Services,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.BaseURL),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Use(middleware.RequireAdmin(logg))
				r.Post("/", controllers.CreateProduct(svcs.Products, logg))
				r.Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
				r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.Register(svcs.Auth, logg))
			r.Post("/login", controllers.Login(svcs.Auth, logg))
		})

		r.Post("/contact", controllers.SubmitContact(svcs.Contact, logg))
		r.Post("/cart/reminder", controllers.SendCartReminder(svcs.Reminder, logg))

		r.Route("/media", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Post("/", controllers.UploadMedia(svcs.Media, logg))
			r.Delete("/{publicID}", controllers.DestroyMedia(svcs.Media, logg))
		})
	})

	return r
}
