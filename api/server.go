/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/calculations/*           Formula calculations
  /api/formulas/*               Ad-hoc expression testing
  /api/benefit-illustration/*   Yearly illustration tables
  /api/products/*               Product catalog and eligibility

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Calculation routes
		r.Route("/calculations", func(r chi.Router) {
			r.Post("/traditional", h.Calculate)
		})

		// Formula testing routes
		r.Route("/formulas", func(r chi.Router) {
			r.Post("/test", h.TestFormula)
		})

		// Benefit illustration routes
		r.Route("/benefit-illustration", func(r chi.Router) {
			r.Post("/calculate", h.CalculateIllustration)
		})

		// Product catalog routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{code}", h.GetProduct)
			r.Post("/{code}/eligibility", h.CheckEligibility)
		})
	})

	// Minimal landing page pointing at the API
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Benefit Calculation Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Benefit Calculation Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/products">/api/products</a> - List products</li>
<li>POST /api/calculations/traditional - Run a product's formulas</li>
<li>POST /api/formulas/test - Evaluate an ad-hoc expression</li>
<li>POST /api/benefit-illustration/calculate - Yearly illustration table</li>
<li>POST /api/products/{code}/eligibility - Check eligibility</li>
</ul>
</body>
</html>`))
	})

	return r
}
