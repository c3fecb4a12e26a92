package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tailortalk/tailortalk/internal/agent"
	"github.com/tailortalk/tailortalk/internal/database"
	"github.com/tailortalk/tailortalk/internal/gcal"
	"github.com/tailortalk/tailortalk/internal/notify"
)

// PipelineRunner is the chat pipeline as the server sees it. Satisfied by
// *agent.Pipeline; narrowed to an interface so handlers can be tested with a
// scripted fake.
type PipelineRunner interface {
	Run(ctx context.Context, message string) agent.State
}

type Server struct {
	runner     PipelineRunner
	db         *database.DB
	gcalClient *gcal.Client
	llm        agent.CompletionClient
	notifier   notify.Notifier
	httpSrv    *http.Server
	port       int
}

// ServerConfig holds everything the HTTP server needs.
type ServerConfig struct {
	Runner     PipelineRunner
	DB         *database.DB
	GCalClient *gcal.Client
	LLM        agent.CompletionClient
	Notifier   notify.Notifier
	Port       int
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		runner:     cfg.Runner,
		db:         cfg.DB,
		gcalClient: cfg.GCalClient,
		llm:        cfg.LLM,
		notifier:   cfg.Notifier,
		port:       cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // one chat run can wait on the model and several calendar calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealthCheck)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /oauth/callback", s.handleOAuthCallback)
}

func (s *Server) Start() error {
	fmt.Printf("Starting HTTP server on http://localhost:%d\n", s.port)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware adds CORS headers so the chat UI can call from any origin
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
