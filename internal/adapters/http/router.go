package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jub0bs/fcors"
	"github.com/viralforge/rental-service/internal/application"
)

// RequestObserver receives one observation per served request, keyed by the
// matched route pattern.
type RequestObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

type Handler struct {
	service *application.Service
	ready   func(context.Context) error
}

// NewHandler binds the HTTP adapter to the service. ready backs /readyz and may be nil.
func NewHandler(service *application.Service, ready func(context.Context) error) *Handler {
	return &Handler{service: service, ready: ready}
}

type RouterOptions struct {
	Observer       RequestObserver
	MetricsHandler http.Handler
	AllowedOrigins []string
}

func NewRouter(handler *Handler, opts RouterOptions) (http.Handler, error) {
	cors, err := corsMiddleware(opts.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	if opts.Observer != nil {
		r.Use(metricsMiddleware(opts.Observer))
	}

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", handler.register)
			r.Post("/login", handler.login)
			r.With(handler.authMiddleware).Get("/me", handler.me)
		})

		r.Route("/houses", func(r chi.Router) {
			r.Get("/", handler.listHouses)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.createHouse)
				r.Get("/my-houses", handler.myHouses)
				r.Put("/{id}/request", handler.submitRequest)
				r.Put("/{id}/accept", handler.acceptRequest)
				r.Put("/{id}/decline", handler.declineRequest)
				r.Put("/{id}/rent", handler.toggleRentPaid)
				r.Put("/{id}/tenant-details", handler.updateTenantDetails)
				r.Put("/{id}/vacate", handler.vacate)
				r.Delete("/{id}", handler.deleteHouse)
			})
			r.Get("/{id}", handler.getHouse)
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/", handler.createTicket)
			r.Get("/my-tickets", handler.myTickets)
			r.Get("/house/{houseId}", handler.houseTickets)
			r.Put("/{id}", handler.updateTicketStatus)
		})
	})

	return r, nil
}

func corsMiddleware(origins []string) (func(http.Handler) http.Handler, error) {
	methods := fcors.WithMethods(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	headers := fcors.WithRequestHeaders("Authorization", "Content-Type", "X-Request-Id")
	if len(origins) == 0 {
		return fcors.AllowAccess(fcors.FromAnyOrigin(), methods, headers)
	}
	return fcors.AllowAccess(fcors.FromOrigins(origins[0], origins[1:]...), methods, headers)
}
