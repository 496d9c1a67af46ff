package api

import (
	"net/http"
	"time"

	"p2v/internal/api/handler"
	"p2v/internal/api/middleware"
	"p2v/internal/app/service"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRouter mounts every endpoint under /api. gatherer may be nil, in which
// case /metrics is not served.
func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	placeService *service.PlaceService,
	voteService *service.VoteService,
	rec metrics.Recorder,
	gatherer prometheus.Gatherer,
	log *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if gatherer != nil {
		r.Handle("/metrics", metrics.Handler(gatherer))
	}

	authenticate := middleware.Authenticator(authService, log)

	r.Route("/api", func(api chi.Router) {
		handler.NewAuthHandler(authService, log).RegisterRoutes(api)
		handler.NewUserHandler(userService, authenticate, rec, log).RegisterRoutes(api)
		handler.NewPlaceHandler(placeService, authenticate, rec, log).RegisterRoutes(api)
		handler.NewVoteHandler(voteService, authenticate, log).RegisterRoutes(api)
	})

	return r
}
