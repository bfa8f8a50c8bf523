package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kai5263499/roi-sentry/internal/config"
	"github.com/kai5263499/roi-sentry/internal/gate"
	"github.com/kai5263499/roi-sentry/internal/surveillance"
)

// Controller is the part of the monitor exposed over HTTP.
type Controller interface {
	Status() surveillance.Status
	Trigger(ctx context.Context) (gate.Event, bool)
}

type Server struct {
	addr string
	cfg  config.Snapshot
	ctl  Controller
	srv  *http.Server
}

func New(addr string, cfg config.Snapshot, ctl Controller) *Server {
	return &Server{
		addr: addr,
		cfg:  cfg,
		ctl:  ctl,
	}
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/trigger", s.handleTrigger)

	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return s.corsMiddleware(mux)
}

func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	log.Info().Str("addr", s.addr).Msg("Starting control server")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleConfig godoc
// @Summary Get the loaded configuration
// @Tags System
// @Produce json
// @Success 200 {object} config.Snapshot
// @Router /api/config [get]
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, s.cfg)
}

// handleStatus godoc
// @Summary Get monitor status
// @Tags System
// @Produce json
// @Success 200 {object} surveillance.Status
// @Router /api/status [get]
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, s.ctl.Status())
}

// TriggerResponse is returned by the trigger endpoint.
type TriggerResponse struct {
	Status string      `json:"status"`
	Event  *gate.Event `json:"event,omitempty"`
	Error  string      `json:"delivery_error,omitempty"`
}

// handleTrigger godoc
// @Summary Fire the manual trigger
// @Description Sends "Manual Motion Triggered" unless the cooldown is active.
// @Tags Motion Detection
// @Produce json
// @Success 200 {object} TriggerResponse
// @Success 202 {object} TriggerResponse
// @Router /api/trigger [post]
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ev, fired := s.ctl.Trigger(r.Context())
	if !fired {
		respondJSON(w, http.StatusAccepted, TriggerResponse{Status: "suppressed"})
		return
	}

	resp := TriggerResponse{Status: "fired", Event: &ev}
	if ev.Err != nil {
		resp.Error = ev.Err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
