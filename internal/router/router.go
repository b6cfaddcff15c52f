package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-movie-api/internal/config"
	"go-movie-api/internal/handler"
	"go-movie-api/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Movie  *handler.MovieHandler
	People *handler.PeopleHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", h.Health.Get)

	r.Route("/user", func(user chi.Router) {
		user.Post("/register", h.Auth.Register)
		user.Post("/login", h.Auth.Login)
		user.Post("/refresh", h.Auth.Refresh)
		user.Post("/logout", h.Auth.Logout)
		user.With(authMiddleware.OptionalAuth).Get("/{email}/profile", h.User.GetProfile)
		user.With(authMiddleware.RequireAuth).Put("/{email}/profile", h.User.UpdateProfile)
	})

	r.Route("/movies", func(movies chi.Router) {
		movies.Get("/search", h.Movie.Search)
		movies.Get("/data/{imdbID}", h.Movie.Detail)
	})

	r.With(authMiddleware.RequireAuthCollapsed).Get("/people/{id}", h.People.Get)

	return r
}
