/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/properties/*     Property management
  /api/tenants/*        Tenancy management and rent schedules
  /api/payments/*       Payment records
  /api/documents/*      Document uploads
  /api/dashboard        Summary numbers
  /api/alerts/*         Scanner alerts
  /api/scenarios/*      Demo scenarios
  /uploads/*            Stored document files (local storage only)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gharbeti/rentroll/storage"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.ListProperties)
			r.Post("/", h.CreateProperty)
			r.Get("/{id}", h.GetProperty)
			r.Put("/{id}", h.UpdateProperty)
			r.Delete("/{id}", h.DeleteProperty)
		})

		r.Route("/tenants", func(r chi.Router) {
			r.Get("/", h.ListTenants)
			r.Post("/", h.CreateTenant)
			r.Get("/{id}", h.GetTenant)
			r.Put("/{id}", h.UpdateTenant)
			r.Delete("/{id}", h.DeleteTenant)
			r.Get("/{id}/schedule", h.GetTenantSchedule)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.CreatePayment)
			r.Get("/{id}", h.GetPayment)
			r.Delete("/{id}", h.DeletePayment)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.ListDocuments)
			r.Post("/", h.UploadDocument)
			r.Get("/{id}/file", h.DownloadDocument)
			r.Delete("/{id}", h.DeleteDocument)
		})

		r.Get("/dashboard", h.GetDashboard)

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.ListAlerts)
			r.Post("/{id}/ack", h.AcknowledgeAlert)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Serve stored files directly when storage is local
	if local, ok := h.Files.(*storage.Local); ok {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.BaseDir())))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	return r
}
