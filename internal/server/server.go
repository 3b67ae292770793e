package server

import (
	"net/http"

	"riot-reimagined/internal/config"
	"riot-reimagined/internal/middleware"
	"riot-reimagined/internal/service"

	"github.com/cockroachdb/errors"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server is the HTTP edge in front of the match aggregator, the user
// directory and the feed proxies.
type Server struct {
	matches *service.MatchService
	users   *service.UserService
	feeds   *service.FeedService
	cfg     *config.Config
	logger  zerolog.Logger
}

func New(
	matches *service.MatchService,
	users *service.UserService,
	feeds *service.FeedService,
	cfg *config.Config,
	logger zerolog.Logger,
) *Server {
	return &Server{
		matches: matches,
		users:   users,
		feeds:   feeds,
		cfg:     cfg,
		logger:  logger,
	}
}

// Handler returns the routed mux wrapped in CORS and request-id middleware.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	return middleware.RequestID(s.logger)(c.Handler(s.routes()))
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.Auth(s.users, isSecretMissing, writeMessage)

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/users/signup", s.handleSignup)
	mux.HandleFunc("POST /api/users/login", s.handleLogin)
	mux.Handle("GET /api/users/profile", auth(http.HandlerFunc(s.handleProfile)))
	mux.Handle("PUT /api/users/profile/riot", auth(http.HandlerFunc(s.handleLinkRiotID)))

	mux.HandleFunc("GET /api/users/riot/account/{gameName}/{tagLine}", s.handleAccount)
	mux.HandleFunc("GET /api/users/riot/matches/lol/{puuid}", s.handleLeagueByPuuid)
	mux.HandleFunc("GET /api/users/riot/matches/lol/{gameName}/{tagLine}", s.handleLeagueByRiotID)
	mux.HandleFunc("GET /api/users/riot/matches/val/{name}/{tag}", s.handleValorant)

	mux.HandleFunc("GET /api/news", s.handleNews)
	mux.HandleFunc("GET /api/esports/schedule", s.handleEsportsSchedule)

	return mux
}

func isSecretMissing(err error) bool {
	return errors.Is(err, service.ErrTokenSecretMissing)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Riot Reimagined API is running"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
