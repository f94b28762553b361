package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"minichat-backend/internal/handlers"
	"minichat-backend/internal/middleware"
)

func New(chatHandler *handlers.ChatHandler, frontendDir, allowedOrigin string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigin))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/health", handlers.Health)
	})

	// Static chat widget (index.html served at root)
	r.Handle("/*", http.FileServer(http.Dir(frontendDir)))

	return r
}
