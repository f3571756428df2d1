package game

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"example.com/codenames/internal/auth"
)

// TokenVerifier resolves a bearer token into identity claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ResultLoader serves archived summaries of finished matches.
type ResultLoader interface {
	LoadResults(ctx context.Context, sessionID string) ([]MatchResult, error)
}

// Server exposes the session API and the websocket entrypoint.
type Server struct {
	sessions *SessionService
	verify   TokenVerifier
	results  ResultLoader

	// baseURL is the externally reachable address used in QR join links.
	baseURL string
}

func NewServer(sessions *SessionService, verify TokenVerifier, results ResultLoader, baseURL string) *Server {
	return &Server{
		sessions: sessions,
		verify:   verify,
		results:  results,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/sessions/", s.handleSessionSub)
	mux.HandleFunc("/ws/", s.handleWS)
}

// handleSessions creates (POST) or lists (GET) sessions.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			req.Name = "Session"
		}

		sess := s.sessions.Create(req.Name)
		writeJSON(w, http.StatusOK, map[string]string{
			"sessionId": sess.ID(),
			"name":      req.Name,
		})

	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.sessions.List())

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSessionSub routes the per-session sub-paths:
// /api/sessions/{id}/qr and /api/sessions/{id}/results.
func (s *Server) handleSessionSub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id, action, ok := strings.Cut(rest, "/")
	if !ok || !validSessionID(id) {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}

	switch action {
	case "qr":
		s.serveSessionQR(w, id)
	case "results":
		s.serveSessionResults(w, r, id)
	default:
		http.Error(w, "bad path", http.StatusBadRequest)
	}
}

// serveSessionQR writes a PNG QR code of the join URL for a live session.
func (s *Server) serveSessionQR(w http.ResponseWriter, id string) {
	if _, found := s.sessions.Get(id); !found {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(s.baseURL+"/join/"+id, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "qr encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// serveSessionResults lists the archived finished matches of a session.
// Works for destroyed sessions too; results outlive the session itself.
func (s *Server) serveSessionResults(w http.ResponseWriter, r *http.Request, id string) {
	if s.results == nil {
		http.Error(w, "results unavailable", http.StatusNotFound)
		return
	}
	results, err := s.results.LoadResults(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// sessionIDFromWSPath extracts the session id from /ws/{id}.
func sessionIDFromWSPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/ws/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	if !validSessionID(rest) {
		return "", false
	}
	return rest, true
}

func validSessionID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
