package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"MediaResolver/internal/api/middleware"
	"MediaResolver/internal/api/routes"
	"MediaResolver/internal/backend/ytdlp"
	"MediaResolver/internal/config"
	"MediaResolver/internal/core/generic"
	"MediaResolver/internal/core/proxy"
	"MediaResolver/internal/core/resolver"
	"MediaResolver/internal/core/signer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if cfg.JWTSecret == config.DefaultSecret {
		log.Println("WARNING: JWT_SECRET is the built-in default; set a real secret before exposing this service")
	}

	// Wire the core components
	tokenSigner, err := signer.New(cfg.JWTSecret, cfg.TokenTTL(), cfg.ReplayCacheSize)
	if err != nil {
		log.Fatal("Failed to initialize token signer:", err)
	}

	backend := ytdlp.New(ytdlp.WithBinary(cfg.YTDLPBinary))
	fallback := generic.New(generic.WithTimeout(cfg.FetchTimeout()))
	resolverService := resolver.NewService(backend, fallback)
	streamProxy := proxy.New(proxy.WithTimeout(cfg.ProxyTimeout()))

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	routes.RegisterMetaRoutes(r, resolverService)
	routes.RegisterResolveRoutes(r, resolverService, tokenSigner, cfg.RateLimitPerMinute, cfg.InfoRateLimit)
	routes.RegisterDownloadRoutes(r, tokenSigner, streamProxy)

	log.Printf("Media resolver listening on %s", cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), r))
}
