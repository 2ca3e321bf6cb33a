// file: controllers/test_helpers_test.go
package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go-event-admin/gateway"
	"go-event-admin/session"
)

// flashes renders the layout messages and field errors in a form the
// assertions can search for.
const flashes = `{{range .successes}}[success:{{.}}]{{end}}{{range .errors}}[error:{{.}}]{{end}}{{range $k, $v := .fields}}[field:{{$k}}={{$v}}]{{end}}`

// createDummyTemplates writes minimal page templates exposing the data
// each handler passes.
func createDummyTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	templates := map[string]string{
		"login.html":         `login next={{.next}} email={{.form.Email}}` + flashes,
		"register.html":      `register` + flashes,
		"dashboard.html":     `dashboard events={{.eventCount}} registered={{.registered}} full={{.full}}` + flashes,
		"profile.html":       `profile {{with .profile}}{{.Email}}{{end}}` + flashes,
		"events.html":        `events search={{.search}}{{range .events}}<tr>{{.Title}}|{{.CreatorName}}</tr>{{end}}` + flashes,
		"event_form.html":    `event form {{.action}}` + flashes,
		"event_detail.html":  `event detail {{.event.Title}} {{.eventURL}}` + flashes,
		"event_delete.html":  `confirm delete {{.event.ID}}` + flashes,
		"users.html":         `users{{range .users}}<tr>{{.Email}}</tr>{{end}}` + flashes,
		"user_form.html":     `user form {{.action}} {{.form.Email}}` + flashes,
		"user_delete.html":   `confirm delete user {{.target.ID}}` + flashes,
		"not_found.html":     `not found` + flashes,
		"loading.html":       `loading`,
		"access_denied.html": `access denied, needs {{.required}}`,
	}
	for name, content := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// backend is a fake API that records the requests it receives.
type backend struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	requests []string
}

func newFakeBackend() *backend {
	return &backend{mux: http.NewServeMux()}
}

func (b *backend) handle(pattern string, h http.HandlerFunc) {
	b.mux.HandleFunc(pattern, h)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.mu.Unlock()
	b.mux.ServeHTTP(w, r)
}

func (b *backend) calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *backend) count(call string) int {
	n := 0
	for _, c := range b.calls() {
		if c == call {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// setupTestRouter mounts every route against the fake backend with a
// cookie session, mirroring main.go.
func setupTestRouter(t *testing.T, b *backend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(http.StripPrefix("/api", b))
	t.Cleanup(srv.Close)
	gw, err := gateway.New(gateway.Config{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second})
	require.NoError(t, err)

	store, err := session.CookieStore("test-secret", session.Options{MaxAge: 3600})
	require.NoError(t, err)

	router := gin.New()
	router.LoadHTMLGlob(filepath.Join(createDummyTemplates(t), "*.html"))
	router.Use(session.Middleware("event_admin", store)...)
	RegisterRoutes(router, Deps{Gateway: gw, PublicURL: "https://admin.example.com"})
	return router
}

// browser replays the session cookie across requests.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, router *gin.Engine) *browser {
	return &browser{t: t, router: router, cookies: map[string]*http.Cookie{}}
}

func (br *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range br.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	br.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(br.cookies, c.Name)
			continue
		}
		br.cookies[c.Name] = c
	}
	return w
}

func (br *browser) get(path string, header ...string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return br.do(req)
}

func (br *browser) post(path string, form url.Values, header ...string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return br.do(req)
}

// handleLogin makes the backend accept any credentials and return role
// as the signed-in profile.
func handleLogin(b *backend, role string) {
	b.handle("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "mock_token", "token_type": "bearer"})
	})
	b.handle("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id": 1, "nombre": "Ana", "email": "ana@example.com", "role": role, "is_active": true,
		})
	})
}

// signIn logs the browser in through the real login form.
func (br *browser) signIn() {
	br.t.Helper()
	w := br.post("/login", url.Values{"email": {"ana@example.com"}, "password": {"secret1"}})
	require.Equal(br.t, http.StatusFound, w.Code, w.Body.String())
}

var twoEvents = []map[string]interface{}{
	{
		"id": 1, "titulo": "Go Conference", "descripcion": "Talks", "fecha_inicio": "2025-03-01T09:00:00",
		"fecha_fin": "2025-03-01T18:00:00", "lugar": "Hall A", "capacidad": 100, "registrado": 10,
		"estado": "Pendiente", "creador": map[string]interface{}{"id": 1, "nombre": "Ana"},
	},
	{
		"id": 2, "titulo": "Cloud Meetup", "descripcion": "Panels", "fecha_inicio": "2025-04-01T18:00:00",
		"fecha_fin": "2025-04-01T21:00:00", "lugar": "", "capacidad": 30, "registrado": 30,
		"estado": "En curso", "creador": map[string]interface{}{"id": 2, "nombre": "Luis"},
	},
}

func handleEventList(b *backend) {
	b.handle("/events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, twoEvents)
	})
}
