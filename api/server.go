package api

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/keuhdall/termfolio/game/content"
	"github.com/keuhdall/termfolio/game/service"
	"github.com/keuhdall/termfolio/game/session"
	"github.com/keuhdall/termfolio/game/shell"
	"github.com/keuhdall/termfolio/transport/websocket"
)

//go:embed static
var staticFiles embed.FS

// Server represents the REST API server
type Server struct {
	service        service.PortfolioService
	hub            *websocket.Hub
	router         *mux.Router
	sessionListing bool
}

// Option configures the API server
type Option func(*Server)

// WithSessionListing enables GET /api/sessions. It is off by default
// because session ids are the only credential a visitor has.
func WithSessionListing(enabled bool) Option {
	return func(s *Server) { s.sessionListing = enabled }
}

// NewServer creates a new API server. hub may be nil, which disables /ws.
func NewServer(portfolioService service.PortfolioService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: portfolioService,
		hub:     hub,
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Shell operations
	api.HandleFunc("/sessions/{id}/execute", s.handleExecute).Methods("POST")
	api.HandleFunc("/sessions/{id}/complete", s.handleComplete).Methods("POST")
	api.HandleFunc("/sessions/{id}/navigate", s.handleNavigate).Methods("POST")
	api.HandleFunc("/sessions/{id}/input", s.handleSetInput).Methods("PUT")

	// Game operations
	api.HandleFunc("/sessions/{id}/game", s.handleGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/game/move", s.handleGameMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/game/key", s.handleGameKey).Methods("POST")
	api.HandleFunc("/sessions/{id}/game/restart", s.handleGameRestart).Methods("POST")
	api.HandleFunc("/sessions/{id}/game/exit", s.handleGameExit).Methods("POST")

	// Content
	api.HandleFunc("/content", s.handleListContent).Methods("GET")
	api.HandleFunc("/content/{name}", s.handleGetContent).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	// Terminal page
	s.router.PathPrefix("/").Handler(staticHandler())
}

// staticHandler serves the embedded terminal page. The embed directive
// guarantees the directory exists.
func staticHandler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("api: embedded static files: %v", err))
	}
	return http.FileServer(http.FS(static))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, content.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, shell.ErrBusy), errors.Is(err, service.ErrGameActive), errors.Is(err, service.ErrGameNotActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidDirection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into req. An empty body is allowed.
func decodeBody(r *http.Request, req interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.CreateSession(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if !s.sessionListing {
		respondError(w, http.StatusForbidden, "session listing is disabled")
		return
	}

	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Shell Handlers

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Line string `json:"line"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := s.service.Execute(r.Context(), sessionID, req.Line)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[EXEC] session=%s line=%q", sessionID, req.Line)
	respondJSON(w, http.StatusAccepted, snap)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Complete(r.Context(), mux.Vars(r)["id"], req.Input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := s.service.Navigate(r.Context(), mux.Vars(r)["id"], req.Direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := s.service.SetInput(r.Context(), mux.Vars(r)["id"], req.Input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// Game Handlers

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGameMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.GameMove(r.Context(), sessionID, req.Direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[MOVE] session=%s dir=%s moved=%t score=%d status=%s",
		sessionID, req.Direction, result.Action.Moved, result.State.Score, result.State.Status)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGameKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.GameKey(r.Context(), mux.Vars(r)["id"], req.Key)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGameRestart(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GameRestart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGameExit(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.GameExit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// Content Handlers

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListContent(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	text, err := s.service.GetContent(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"name":    name,
		"content": text,
		"html":    shell.RenderHTML(text),
	})
}

// WebSocket Handler
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	snap, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID, snap)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
