package web

import (
	"net/http"

	"go.uber.org/zap"

	"rpgme/internal/card"
	"rpgme/internal/character"
)

const maxNameLen = 64

// GET /card.pdf?seed=&name= renders a printable character card. Only the
// query is used, so shared links can be turned into cards without a page.
func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	st := character.ApplySeed(character.Defaults(), q.Get("seed"))
	st.Name = truncateName(q.Get("name"))

	root := pageURL(r)
	link, err := character.ShareLink(root, st.Seed)
	if err != nil {
		link = ""
	}
	pdf, err := card.Generate(st, link)
	if err != nil {
		s.Log.Error("render card", zap.String("seed", st.Seed), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="character-`+st.Seed+`.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		s.Log.Warn("write card", zap.Error(err))
	}
}

// truncateName keeps at most maxNameLen characters of name.
func truncateName(name string) string {
	r := []rune(name)
	if len(r) > maxNameLen {
		return string(r[:maxNameLen])
	}
	return name
}
