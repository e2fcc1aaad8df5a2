package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"rpgme/internal/character"
)

// browserClipboard hands the link to the page, which performs the actual
// clipboard write (static/app.js) and reports its own failures.
type browserClipboard struct {
	text string
}

func (c *browserClipboard) WriteText(_ context.Context, text string) error {
	c.text = text
	return nil
}

// shareEvent is the htmx event the page listens for after POST /share.
const shareEvent = "share-link"

// POST /share answers with no body. The share link for the page's current
// seed travels in an HX-Trigger event, so the page only copies a link when a
// share response arrives.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", 400)
		return
	}
	st := s.loadState(ctx, r.FormValue("sid"))

	clip := &browserClipboard{}
	link, notice := character.Share(ctx, clip, pageURL(r), st.Seed)
	if notice.Failed {
		s.Log.Warn("share link failed", zap.String("reason", notice.Message))
	} else {
		s.Log.Info("share link generated", zap.String("seed", st.Seed))
	}

	trigger, err := json.Marshal(map[string]ShareView{shareEvent: {
		Link:      link,
		Message:   notice.Message,
		Failed:    notice.Failed,
		TimeoutMS: character.NotificationTimeout.Milliseconds(),
	}})
	if err != nil {
		s.Log.Error("encode share event", zap.Error(err))
		http.Error(w, "failed to encode share link", 500)
		return
	}
	w.Header().Set("HX-Trigger", string(trigger))
	w.WriteHeader(http.StatusNoContent)
}

// POST /close forgets a page's state when the page is closed.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", 400)
		return
	}
	sid := r.FormValue("sid")
	if sid == "" {
		http.Error(w, "missing session", 400)
		return
	}
	if err := s.Store.Delete(r.Context(), sid); err != nil {
		s.Log.Warn("drop page state", zap.String("sid", sid), zap.Error(err))
		http.Error(w, "failed to drop state", 500)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pageURL is the address of the page that issued r: the htmx current-URL
// header, then the Referer, then the site root derived from r itself.
func pageURL(r *http.Request) string {
	if v := r.Header.Get("HX-Current-URL"); v != "" {
		return v
	}
	if v := r.Referer(); v != "" {
		return v
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/"}
	return u.String()
}
