package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	"github.com/Yasserbhb/BeeGuardAI/auth"
	"github.com/Yasserbhb/BeeGuardAI/hives"
	"github.com/Yasserbhb/BeeGuardAI/internal/config"
	"github.com/Yasserbhb/BeeGuardAI/readings"
	"github.com/Yasserbhb/BeeGuardAI/sessions"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Repos holds the repositories the handlers read and write directly
type Repos struct {
	APIKeys  apikeys.Repo
	Hives    hives.Repo
	Apiaries hives.ApiaryRepo
	Readings readings.Repo
	Settings alerts.Repo
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	handler  http.Handler
	routes   []string
	config   config.Config
	accounts *auth.AccountService
	sessions sessions.Store
	repos    Repos
	alerts   *alerts.Evaluator
	nowTime  func() time.Time
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithAlerts enables hornet alert evaluation after each stored reading
func WithAlerts(evaluator *alerts.Evaluator) ServerOption {
	return func(s *Server) {
		s.alerts = evaluator
	}
}

func New(config config.Config, accounts *auth.AccountService, sessionStore sessions.Store, repos Repos, options ...ServerOption) (*Server, error) {
	if accounts == nil {
		return nil, fmt.Errorf("[Server New] account service is required")
	}
	if sessionStore == nil {
		return nil, fmt.Errorf("[Server New] session store is required")
	}
	if repos.APIKeys == nil || repos.Hives == nil || repos.Apiaries == nil || repos.Readings == nil || repos.Settings == nil {
		return nil, fmt.Errorf("[Server New] all repositories are required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		accounts: accounts,
		sessions: sessionStore,
		repos:    repos,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	// Every request goes through the standard middleware, including 404s and CORS preflights
	s.handler = otelhttp.NewHandler(
		ChainMiddleware(s.mux.ServeHTTP, s.StandardMiddleware()...),
		config.GetAppName(),
	)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
