package web

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"rpgme/internal/character"
	"rpgme/internal/session"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	controls, err := character.LoadControls(filepath.Join("..", "..", "controls.yaml"))
	if err != nil {
		t.Fatalf("LoadControls: %v", err)
	}

	tmplDir := filepath.Join("..", "..", "templates")
	tmpl := template.Must(template.ParseFiles(
		filepath.Join(tmplDir, "layout.html"),
		filepath.Join(tmplDir, "preview.html"),
		filepath.Join(tmplDir, "controls.html"),
		filepath.Join(tmplDir, "notification.html"),
		filepath.Join(tmplDir, "update_response.html"),
	))
	return &Server{
		Controls:  controls,
		Store:     session.NewMemoryStore[character.Settings](),
		Tmpl:      tmpl,
		StaticDir: filepath.Join("..", "..", "static"),
	}
}

var sidPattern = regexp.MustCompile(`name="sid" value="([0-9a-f]{32})"`)

// openPage loads the customizer and returns the page session id.
func openPage(t *testing.T, srv *Server, target string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", target, rec.Code)
	}
	m := sidPattern.FindStringSubmatch(rec.Body.String())
	if m == nil {
		t.Fatal("Expected page to carry a session id")
	}
	return m[1], rec
}

func postForm(t *testing.T, srv *Server, path string, form url.Values, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func pageState(t *testing.T, srv *Server, sid string) character.Settings {
	t.Helper()
	st, ok, err := srv.Store.Get(context.Background(), sid)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Expected page state")
	}
	return st
}

func TestHandleIndex_Defaults(t *testing.T) {
	srv := testServer(t)
	sid, rec := openPage(t, srv, "/")

	body := rec.Body.String()
	if !strings.Contains(body, "Design Your Character") {
		t.Error("Expected body to contain page title")
	}
	if !strings.Contains(body, "Seed: 00000000") {
		t.Error("Expected default seed to be shown")
	}
	if !strings.Contains(body, `hat="none"`) {
		t.Error("Expected avatar hat attribute")
	}
	if st := pageState(t, srv, sid); st != character.Defaults() {
		t.Errorf("Expected defaults stored, got %+v", st)
	}
}

func TestHandleIndex_ImportsSeed(t *testing.T) {
	srv := testServer(t)
	sid, rec := openPage(t, srv, "/?seed=31415926")

	st := pageState(t, srv, sid)
	if st.Seed != "31415926" || st.Accessories != 3 || st.Skin != 6 {
		t.Errorf("Expected seed imported, got %+v", st)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Seed: 31415926") {
		t.Error("Expected imported seed to be shown")
	}
	if !strings.Contains(body, `accessories="3"`) || !strings.Contains(body, `skin="6"`) {
		t.Error("Expected avatar attributes from the seed")
	}
}

func TestHandleIndex_ShortSeed(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/?seed=42")

	st := pageState(t, srv, sid)
	if st.Seed != "00000042" {
		t.Errorf("Expected seed 00000042, got %q", st.Seed)
	}
	for i, v := range st.Digits() {
		if v < 0 || v > 9 {
			t.Errorf("%s = %d, expected a digit", character.DigitFields[i], v)
		}
	}
}

func TestHandleIndex_MalformedSeed(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/?seed="+url.QueryEscape("<script>"))
	st := pageState(t, srv, sid)
	if len(st.Seed) != character.SeedLength {
		t.Errorf("Expected %d character seed, got %q", character.SeedLength, st.Seed)
	}
}

func TestHandleIndex_EachLoadIsNewPage(t *testing.T) {
	srv := testServer(t)
	a, _ := openPage(t, srv, "/")
	b, _ := openPage(t, srv, "/")
	if a == b {
		t.Error("Expected separate page sessions")
	}
}

func TestHandleIndex_UnknownPath(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleUpdate_Slider(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/?seed=12345678")

	rec := postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"base"}, "value": {"7"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	st := pageState(t, srv, sid)
	if st.Base != 7 || st.Seed != "17345678" {
		t.Errorf("Expected base 7 and seed 17345678, got base %d seed %q", st.Base, st.Seed)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Seed: 17345678") || !strings.Contains(body, `base="7"`) {
		t.Errorf("Expected refreshed preview, got %s", body)
	}
	// The hair toggle edits base too and is swapped out of band.
	if !strings.Contains(body, `id="ctl-hairToggle"`) || !strings.Contains(body, `hx-swap-oob="true"`) {
		t.Error("Expected hair toggle re-rendered out of band")
	}
}

func TestHandleUpdate_Checkbox(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/")

	rec := postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"fire"}, "checked": {"on"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !pageState(t, srv, sid).Fire {
		t.Error("Expected fire set")
	}

	rec = postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"fire"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if pageState(t, srv, sid).Fire {
		t.Error("Expected fire cleared")
	}
}

func TestHandleUpdate_HairToggle(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/")

	rec := postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"hairToggle"}, "checked": {"on"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	st := pageState(t, srv, sid)
	if st.Base != 1 || st.Seed != "01000000" {
		t.Errorf("Expected base 1, got base %d seed %q", st.Base, st.Seed)
	}
	if !strings.Contains(rec.Body.String(), `id="ctl-base"`) {
		t.Error("Expected base slider re-rendered out of band")
	}
}

func TestHandleUpdate_NameAndHat(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/?seed=99999999")

	postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"characterNameInput"}, "value": {"Ada <3"}}, nil)
	rec := postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"hat"}, "value": {"pirate"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	st := pageState(t, srv, sid)
	if st.Name != "Ada <3" || st.Hat != "pirate" {
		t.Errorf("Expected name and hat set, got %+v", st)
	}
	if st.Seed != "99999999" {
		t.Errorf("Expected seed unchanged by unencoded fields, got %q", st.Seed)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Ada &lt;3") {
		t.Error("Expected escaped name in preview")
	}
	if strings.Contains(body, "hx-swap-oob") {
		t.Error("Expected no out of band controls for hat")
	}
}

func TestHandleUpdate_UnknownPageStartsFromDefaults(t *testing.T) {
	srv := testServer(t)
	rec := postForm(t, srv, "/update", url.Values{"sid": {"gone"}, "control": {"skin"}, "value": {"4"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if st := pageState(t, srv, "gone"); st.Seed != "00000004" {
		t.Errorf("Expected seed 00000004, got %q", st.Seed)
	}
}

func TestHandleUpdate_BadRequests(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/")

	tests := map[string]url.Values{
		"missing sid":     {"control": {"skin"}, "value": {"1"}},
		"unknown control": {"sid": {sid}, "control": {"cape"}, "value": {"1"}},
	}
	for name, form := range tests {
		rec := postForm(t, srv, "/update", form, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/update", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

// shareResult decodes the share event carried in the HX-Trigger header.
func shareResult(t *testing.T, rec *httptest.ResponseRecorder) ShareView {
	t.Helper()
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	var events map[string]ShareView
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("decode HX-Trigger %q: %v", rec.Header().Get("HX-Trigger"), err)
	}
	ev, ok := events[shareEvent]
	if !ok {
		t.Fatalf("Expected %s event, got %v", shareEvent, events)
	}
	return ev
}

func TestHandleShare(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/?seed=11111111")
	postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"pants"}, "value": {"5"}}, nil)

	rec := postForm(t, srv, "/share", url.Values{"sid": {sid}},
		map[string]string{"HX-Current-URL": "https://rpg.example/?seed=11111111&theme=dark#top"})
	ev := shareResult(t, rec)
	link, err := url.Parse(ev.Link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	q := link.Query()
	if len(q) != 1 || q.Get("seed") != "11111511" {
		t.Errorf("Expected only seed=11111511, got %v", q)
	}
	if link.Host != "rpg.example" || link.Fragment != "" {
		t.Errorf("Expected link on page host without fragment, got %s", link)
	}
	if ev.Failed || ev.Message != "Link copied!" || ev.TimeoutMS != 2000 {
		t.Errorf("Expected success notification, got %+v", ev)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", rec.Body.String())
	}
}

func TestHandleShare_LinkFollowsLatestSeed(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/")

	first := shareResult(t, postForm(t, srv, "/share", url.Values{"sid": {sid}}, nil))
	if first.Link != "http://example.com/?seed=00000000" {
		t.Fatalf("Unexpected first link %q", first.Link)
	}

	// Updates after a share must not carry the earlier link back to the page.
	rec := postForm(t, srv, "/update", url.Values{"sid": {sid}, "control": {"skin"}, "value": {"8"}}, nil)
	if rec.Header().Get("HX-Trigger") != "" {
		t.Errorf("Expected no share event on update, got %q", rec.Header().Get("HX-Trigger"))
	}
	if strings.Contains(rec.Body.String(), "seed=00000000") {
		t.Error("Expected update response free of the earlier seed")
	}

	second := shareResult(t, postForm(t, srv, "/share", url.Values{"sid": {sid}}, nil))
	if second.Link != "http://example.com/?seed=00000008" {
		t.Errorf("Expected link for the new seed, got %q", second.Link)
	}
}

func TestHandleShare_FallsBackToRequestHost(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/")

	ev := shareResult(t, postForm(t, srv, "/share", url.Values{"sid": {sid}}, nil))
	if ev.Link != "http://example.com/?seed=00000000" {
		t.Errorf("Expected link from request host, got %q", ev.Link)
	}
}

func TestHandleShare_BadPageURL(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/")

	rec := postForm(t, srv, "/share", url.Values{"sid": {sid}}, map[string]string{"HX-Current-URL": "http://[::1"})
	ev := shareResult(t, rec)
	if !ev.Failed || !strings.HasPrefix(ev.Message, "Error: ") || ev.Link != "" {
		t.Errorf("Expected failure notification, got %+v", ev)
	}
}

func TestHandleClose(t *testing.T) {
	srv := testServer(t)
	sid, _ := openPage(t, srv, "/")

	rec := postForm(t, srv, "/close", url.Values{"sid": {sid}}, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	if _, ok, _ := srv.Store.Get(context.Background(), sid); ok {
		t.Error("Expected page state dropped")
	}

	rec = postForm(t, srv, "/close", url.Values{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without sid, got %d", rec.Code)
	}
}

func TestTextControlPostsOnEveryInput(t *testing.T) {
	srv := testServer(t)
	_, rec := openPage(t, srv, "/")
	body := rec.Body.String()

	i := strings.Index(body, `id="ctl-characterNameInput"`)
	if i < 0 {
		t.Fatal("Expected name control form")
	}
	form := body[i:]
	form = form[:strings.Index(form, ">")]
	if !strings.Contains(form, `hx-trigger="input delay:200ms"`) {
		t.Errorf("Expected input trigger on name form, got %s", form)
	}
	if strings.Contains(form, "changed") {
		t.Errorf("Expected no changed modifier on a form trigger, got %s", form)
	}
}

func TestHandleCard(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/card.pdf?seed=27182818&name=Ada", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "character-27182818.pdf") {
		t.Errorf("Expected seed in filename, got %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("Expected PDF body")
	}
}

func TestHandlePreview(t *testing.T) {
	srv := testServer(t)
	for _, seed := range []string{"", "12345678", "zz"} {
		req := httptest.NewRequest(http.MethodGet, "/preview.png?seed="+seed, http.NoBody)
		rec := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("seed %q: expected 200, got %d", seed, rec.Code)
		}
		img, err := png.Decode(rec.Body)
		if err != nil {
			t.Fatalf("seed %q: decode: %v", seed, err)
		}
		if b := img.Bounds(); b.Dx() != previewW || b.Dy() != previewH {
			t.Errorf("seed %q: expected %dx%d, got %v", seed, previewW, previewH, b)
		}
	}
}

func TestGeneratePreviewImage_Differs(t *testing.T) {
	a := generatePreviewImage(character.ApplySeed(character.Defaults(), "01000000"))
	b := generatePreviewImage(character.ApplySeed(character.Defaults(), "01000090"))
	var ba, bb bytes.Buffer
	if err := png.Encode(&ba, a); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := png.Encode(&bb, b); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if bytes.Equal(ba.Bytes(), bb.Bytes()) {
		t.Error("Expected different shirts to render differently")
	}
}

func TestStaticFiles(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/static/app.js", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestTruncateName(t *testing.T) {
	long := strings.Repeat("é", maxNameLen+10)
	got := truncateName(long)
	if !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != maxNameLen {
		t.Errorf("Expected %d characters, got %d", maxNameLen, n)
	}
	if got := truncateName("Ada"); got != "Ada" {
		t.Errorf("Expected short name kept, got %q", got)
	}
}

func TestHandleCard_LongMultibyteName(t *testing.T) {
	srv := testServer(t)
	name := url.QueryEscape(strings.Repeat("ñ", 100))
	req := httptest.NewRequest(http.MethodGet, "/card.pdf?seed=1&name="+name, http.NoBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("Expected PDF body")
	}
}
