//go:build integration
// +build integration

// integration/connection_test.go
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-event-admin/controllers"
	"go-event-admin/gateway"
	"go-event-admin/session"
	hub "go-event-admin/websocket"
)

// eventsAPI is an in-memory events backend.
type eventsAPI struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (a *eventsAPI) handler(t *testing.T) http.Handler {
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "mock_token", "token_type": "bearer"})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 1, "nombre": "Ana", "email": "ana@example.com", "role": "Admin", "is_active": true})
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		writeJSON(w, http.StatusOK, a.events)
	})
	mux.HandleFunc("/events/registrar", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer mock_token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		var in map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		a.mu.Lock()
		in["id"] = len(a.events) + 1
		in["registrado"] = 0
		in["estado"] = "Pendiente"
		a.events = append(a.events, in)
		a.mu.Unlock()
		writeJSON(w, http.StatusCreated, in)
	})
	return http.StripPrefix("/api", mux)
}

// startServer runs the admin client against api with a live hub.
func startServer(t *testing.T, api http.Handler) *httptest.Server {
	gin.SetMode(gin.TestMode)
	backend := httptest.NewServer(api)
	t.Cleanup(backend.Close)

	gw, err := gateway.New(gateway.Config{BaseURL: backend.URL + "/api/", Timeout: 2 * time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub("")
	go h.Run(ctx)

	store, err := session.CookieStore("integration-secret", session.Options{MaxAge: 3600})
	require.NoError(t, err)

	router := gin.New()
	router.LoadHTMLGlob("../templates/*.html")
	router.Use(session.Middleware("event_admin", store)...)
	controllers.RegisterRoutes(router, controllers.Deps{Gateway: gw, Hub: h})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestEventCreationNotifiesOpenPages(t *testing.T) {
	api := &eventsAPI{}
	srv := startServer(t, api.handler(t))

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:           jar,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	resp, err := client.PostForm(srv.URL+"/login", url.Values{"email": {"ana@example.com"}, "password": {"secret1"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	u, _ := url.Parse(srv.URL)
	header := http.Header{}
	for _, c := range jar.Cookies(u) {
		header.Add("Cookie", c.String())
	}
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/updates"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err, "signed-in pages should open the updates socket")
	defer conn.Close()

	// the hub registers the connection asynchronously
	time.Sleep(100 * time.Millisecond)

	resp, err = client.PostForm(srv.URL+"/events", url.Values{
		"title": {"Go Conference"}, "description": {"Talks"},
		"start_time": {"2025-03-01T09:00"}, "end_time": {"2025-03-01T18:00"},
		"place": {"Hall A"}, "capacity": {"100"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"eventsChanged"}`, string(data))

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.events, 1)
	assert.Equal(t, "Go Conference", api.events[0]["titulo"])
}

func TestUpdatesSocketRequiresSession(t *testing.T) {
	srv := startServer(t, (&eventsAPI{}).handler(t))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/updates"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
