package routes

import (
	"net/http"
	"time"

	"MediaResolver/internal/api/handlers/resolve"
	"MediaResolver/internal/api/middleware"
	"MediaResolver/internal/core/resolver"
	"MediaResolver/internal/core/signer"

	"github.com/go-chi/chi/v5"
)

// RegisterResolveRoutes registers the resolution endpoints
func RegisterResolveRoutes(
	r chi.Router,
	service resolver.Service,
	s *signer.Signer,
	resolveLimit, infoLimit int,
) {
	resolveHandler := resolve.NewResolveHandler(service, s)
	infoHandler := resolve.NewInfoHandler(service)

	// POST /resolve
	// Resolution shells out to the backend, so it gets the tighter limit
	resolveLimiter := middleware.NewRateLimiter(resolveLimit, time.Minute)
	r.Post("/resolve",
		resolveLimiter.Middleware(http.HandlerFunc(resolveHandler.HandleResolve)).ServeHTTP)

	// GET /info?url=...
	infoLimiter := middleware.NewRateLimiter(infoLimit, time.Minute)
	r.Get("/info",
		infoLimiter.Middleware(http.HandlerFunc(infoHandler.HandleInfo)).ServeHTTP)
}
