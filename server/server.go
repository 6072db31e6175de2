// Package server exposes the render pass over HTTP: per-session dashboard
// state, one render endpoint computing the full pass, and a secret-gated CSV
// export of the filtered rows.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tessera-analytics/tessera/dataset"
	"github.com/tessera-analytics/tessera/engine"
	"github.com/tessera-analytics/tessera/session"
)

// ErrBadSecret is returned when the export secret does not match.
var ErrBadSecret = errors.New("export secret mismatch")

// Server wires the dataset loader, the render pass, and the session registry.
type Server struct {
	loader   *dataset.Loader
	sessions *session.Registry
	passCfg  engine.PassConfig
	secret   string
}

// New creates a server. passCfg.CategoryKeys may be left empty; the keys
// discovered at load time are used for each pass.
func New(loader *dataset.Loader, sessions *session.Registry, passCfg engine.PassConfig, exportSecret string) *Server {
	return &Server{
		loader:   loader,
		sessions: sessions,
		passCfg:  passCfg,
		secret:   exportSecret,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/sessions", s.handleCreateSession)
	r.Get("/api/sessions/{id}/render", s.handleRender)
	r.Put("/api/sessions/{id}", s.handleUpdate)
	r.Get("/api/sessions/{id}/export", s.handleExport)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sess)
}

// handleRender runs one full pass with the session's stored state.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	in := sess.Input
	if raw := r.URL.Query().Get("group_by"); raw != "" {
		// one-off summary dimensions for this render only
		in.GroupBy = strings.Split(raw, ",")
	}
	s.renderPass(w, in)
}

// updateRequest is the presentation layer's state change. Pointer fields
// distinguish "not sent" from zero values, so a mode toggle does not reset
// the selections.
type updateRequest struct {
	Selections     map[string][]string `json:"selections"`
	Mode           *string             `json:"mode"`
	DelinquentOnly *bool               `json:"delinquentOnly"`
	ArrearsOnly    *bool               `json:"arrearsOnly"`
	TargetOnly     *bool               `json:"targetOnly"`
	GroupBy        []string            `json:"groupBy"`
}

// handleUpdate applies a state change and responds with a fresh render pass.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess, err := s.sessions.Update(chi.URLParam(r, "id"), func(in *engine.PassInput) {
		if req.Selections != nil {
			in.Selections = req.Selections
		}
		if req.Mode != nil {
			in.Mode = engine.ParseMode(*req.Mode)
		}
		if req.DelinquentOnly != nil {
			in.DelinquentOnly = *req.DelinquentOnly
		}
		if req.ArrearsOnly != nil {
			in.ArrearsOnly = *req.ArrearsOnly
		}
		if req.TargetOnly != nil {
			in.TargetOnly = *req.TargetOnly
		}
		if req.GroupBy != nil {
			in.GroupBy = req.GroupBy
		}
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.renderPass(w, sess.Input)
}

// handleExport streams the session's filtered rows as CSV. The secret check
// is a plain shared-string comparison, the same gate the spreadsheet-era
// dashboard used — it is not an access control mechanism.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && r.URL.Query().Get("secret") != s.secret {
		writeError(w, http.StatusForbidden, ErrBadSecret)
		return
	}

	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	result, err := s.runPass(sess.Input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_data.csv"`)
	if err := dataset.WriteCSV(w, result.View); err != nil {
		log.Printf("export: %v", err)
	}
}

func (s *Server) renderPass(w http.ResponseWriter, in engine.PassInput) {
	result, err := s.runPass(in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) runPass(in engine.PassInput) (*engine.PassResult, error) {
	snap, err := s.loader.Snapshot()
	if err != nil {
		return nil, err
	}
	cfg := s.passCfg
	if len(cfg.CategoryKeys) == 0 {
		cfg.CategoryKeys = snap.CategoryKeys
	}
	return engine.RunPass(snap.View, cfg, in)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
