package agent

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/nstehr/rampart/ipc"
)

// Registry tracks the live matches for the status server.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*MatchContext
}

func NewRegistry() *Registry {
	return &Registry{matches: make(map[string]*MatchContext)}
}

func (r *Registry) Add(m *MatchContext) {
	r.mu.Lock()
	r.matches[m.ID] = m
	r.mu.Unlock()
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.matches, id)
	r.mu.Unlock()
}

func (r *Registry) Get(id string) (*MatchContext, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	return m, ok
}

// List returns a snapshot of every live match, oldest first.
func (r *Registry) List() []MatchStatus {
	r.mu.RLock()
	out := make([]MatchStatus, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m.Status())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Started.Equal(out[j].Started) {
			return out[i].Started.Before(out[j].Started)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// EngineHandler accepts engine sessions over websocket.
func EngineHandler(planner *Planner, registry *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		slog.Info("engine connected", "transport", "websocket", "remote", r.RemoteAddr)
		Serve(ipc.NewWebSocketTransport(ws), planner, registry)
	})
}

// NewRouter serves the read-only match views and, when engine is non-nil,
// the websocket engine endpoint.
func NewRouter(registry *Registry, engine http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "matches": len(registry.List())})
	}).Methods(http.MethodGet)
	r.HandleFunc("/matches", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, registry.List())
	}).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}", func(w http.ResponseWriter, req *http.Request) {
		m, ok := registry.Get(mux.Vars(req)["id"])
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "match not found"})
			return
		}
		writeJSON(w, http.StatusOK, m.Status())
	}).Methods(http.MethodGet)
	if engine != nil {
		r.Handle("/engine", engine)
	}
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}
