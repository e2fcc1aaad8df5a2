package web

import (
	"context"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"rpgme/internal/character"
	"rpgme/internal/session"
)

const pageTitle = "Design Your Character"

type Server struct {
	Controls  *character.Catalog
	Store     session.Store[character.Settings]
	Tmpl      *template.Template
	Log       *zap.Logger
	StaticDir string
}

func (s *Server) Routes() http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	staticDir := s.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/update", s.handleUpdate)
	mux.HandleFunc("/share", s.handleShare)
	mux.HandleFunc("/close", s.handleClose)
	mux.HandleFunc("/card.pdf", s.handleCard)
	mux.HandleFunc("/preview.png", s.handlePreview)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	return s.logRequests(mux)
}

// GET / starts a fresh customizer page. A seed query parameter, when
// present, is imported once before the first render.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	st := character.Defaults()
	if q := r.URL.Query(); q.Has("seed") {
		st = character.ApplySeed(st, q.Get("seed"))
	}

	id := s.Store.NewID()
	if err := s.Store.Put(ctx, id, st); err != nil {
		s.Log.Error("save page state", zap.Error(err))
		http.Error(w, "failed to save state", 500)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	vm := s.makeViewModel(id, st)
	if err := s.Tmpl.ExecuteTemplate(w, "layout.html", vm); err != nil {
		s.Log.Error("render page", zap.Error(err))
		http.Error(w, "failed to render template", 500)
		return
	}
}

// POST /update applies one control event and returns the refreshed preview.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", 400)
		return
	}
	sid := r.FormValue("sid")
	if sid == "" {
		http.Error(w, "missing session", 400)
		return
	}
	ctl, ok := s.Controls.Lookup(r.FormValue("control"))
	if !ok {
		http.Error(w, "unknown control", 400)
		return
	}

	st := s.loadState(ctx, sid)
	st, err := character.Apply(st, ctl.Command(r.FormValue("value"), r.FormValue("checked") != ""))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := s.Store.Put(ctx, sid, st); err != nil {
		s.Log.Error("save page state", zap.String("sid", sid), zap.Error(err))
		http.Error(w, "failed to save state", 500)
		return
	}
	s.Log.Debug("setting updated",
		zap.String("sid", sid),
		zap.String("field", string(ctl.Field)),
		zap.String("seed", st.Seed))

	vm := s.makeViewModel(sid, st)
	vm.Linked = s.linkedControls(vm, ctl)
	if err := s.Tmpl.ExecuteTemplate(w, "update_response.html", vm); err != nil {
		s.Log.Error("render preview", zap.Error(err))
		http.Error(w, "failed to render template", 500)
		return
	}
}

// loadState returns the page's settings, or defaults when the page is
// unknown (never created, or swept after being idle).
func (s *Server) loadState(ctx context.Context, sid string) character.Settings {
	st, ok, err := s.Store.Get(ctx, sid)
	if err != nil {
		s.Log.Warn("load page state", zap.String("sid", sid), zap.Error(err))
	}
	if err != nil || !ok {
		return character.Defaults()
	}
	return st
}
