package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/realtime"
	"github.com/rubiojr/falcony/pkg/session"
	"github.com/rubiojr/falcony/pkg/storage"
	"github.com/rubiojr/falcony/pkg/suggest"
)

type testEnv struct {
	mux     *http.ServeMux
	history *suggest.History
	hub     *realtime.Hub
	server  *Server
}

// fakeBackend serves /search with 23 falcon results and /suggestions with
// two completions of the query.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		if q == "broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		docs := make([]map[string]any, 0, 10)
		for i := 0; i < 10; i++ {
			docs = append(docs, map[string]any{
				"title":   fmt.Sprintf("Result %d", i),
				"url":     fmt.Sprintf("https://example.com/%d", i),
				"snippet": "The " + q + " flies fast",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"total": 23, "docs": docs})
	})
	mux.HandleFunc("/suggestions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		json.NewEncoder(w).Encode([]string{q + " bird", q + " speed"})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func setupTestAPIServer(t *testing.T) *testEnv {
	t.Helper()
	ts := fakeBackend(t)

	client, err := backend.NewClient(ts.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	history, err := suggest.NewHistory(store, 5)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	sessions := session.NewManager(session.Dependencies{Search: client, Suggest: client, History: history}, time.Minute)
	hub := realtime.NewHub(4)
	server := NewServer(sessions, hub, client.BaseURL)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	return &testEnv{mux: mux, history: history, hub: hub, server: server}
}

func doGet(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestAPISearch(t *testing.T) {
	env := setupTestAPIServer(t)

	w := doGet(t, env.mux, "/api/search?query=falcon&limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", contentType)
	}

	var resp SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalCount != 23 || resp.TotalPages != 3 || len(resp.Results) != 10 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if fmt.Sprint(resp.Pages) != "[1 2 3]" {
		t.Errorf("expected pages [1 2 3], got %v", resp.Pages)
	}
	if !resp.HasMore || resp.Page != 1 {
		t.Errorf("expected page 1 with more pages")
	}

	var matched []string
	for _, f := range resp.Results[0].Highlights {
		if f.Match {
			matched = append(matched, f.Text)
		}
	}
	if len(matched) != 1 || matched[0] != "falcon" {
		t.Errorf("expected falcon highlighted, got %v", matched)
	}
}

func TestAPISearchBadParams(t *testing.T) {
	env := setupTestAPIServer(t)

	for _, target := range []string{
		"/api/search",
		"/api/search?query=%20%20",
		"/api/search?query=falcon&page=0",
		"/api/search?query=falcon&page=x",
		"/api/search?query=falcon&limit=-1",
	} {
		if w := doGet(t, env.mux, target); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", target, w.Code)
		}
	}
}

func TestAPISearchBackendFailure(t *testing.T) {
	env := setupTestAPIServer(t)

	w := doGet(t, env.mux, "/api/search?query=broken")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "Search failed" {
		t.Errorf("unexpected error %+v", resp)
	}
}

func TestAPISuggestions(t *testing.T) {
	env := setupTestAPIServer(t)
	if err := env.history.Record("falcon heavy"); err != nil {
		t.Fatal(err)
	}
	if err := env.history.Record("dogs"); err != nil {
		t.Fatal(err)
	}

	w := doGet(t, env.mux, "/api/suggestions?query=falcon")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp SuggestionsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "[falcon heavy falcon bird falcon speed]"
	if fmt.Sprint(resp.Suggestions) != want {
		t.Fatalf("suggestions = %v, want %s", resp.Suggestions, want)
	}
	if resp.Partial {
		t.Errorf("expected a complete list")
	}

	w = doGet(t, env.mux, "/api/suggestions")
	resp = SuggestionsResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fmt.Sprint(resp.Suggestions) != "[dogs falcon heavy]" {
		t.Fatalf("empty query should list history, got %v", resp.Suggestions)
	}
}

func TestAPIHealth(t *testing.T) {
	env := setupTestAPIServer(t)

	w := doGet(t, env.mux, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Backend == "" {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestAPIMethodNotAllowed(t *testing.T) {
	env := setupTestAPIServer(t)

	for _, endpoint := range []string{"/api/search", "/api/suggestions", "/health"} {
		for _, method := range []string{"POST", "PUT", "DELETE"} {
			w := httptest.NewRecorder()
			env.mux.ServeHTTP(w, httptest.NewRequest(method, endpoint, nil))
			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("%s %s: expected 405, got %d", method, endpoint, w.Code)
			}
		}
	}
}

func TestCorsMiddleware(t *testing.T) {
	h := CorsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/search", nil))
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d %v", w.Code, w.Header())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/search", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected request to reach handler")
	}
}

func wsDial(t *testing.T, ts *httptest.Server) (*websocket.Conn, SocketMessage) {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	u.Scheme = "ws"
	u.Path = "/ws/suggestions"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	var msg SocketMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read init: %v", err)
	}
	if msg.Type != "init" {
		t.Fatalf("expected init message, got %v", msg.Type)
	}
	return conn, msg
}

func readType(t *testing.T, conn *websocket.Conn, typ string) SocketMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg SocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read %s: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestSuggestionSocket(t *testing.T) {
	env := setupTestAPIServer(t)
	if err := env.history.Record("falcon nine"); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(env.mux)
	defer ts.Close()

	conn, init := wsDial(t, ts)
	if fmt.Sprint(init.Suggestions) != "[falcon nine]" {
		t.Fatalf("init should carry history, got %v", init.Suggestions)
	}

	if err := conn.WriteJSON(SocketMessage{Type: "input", Query: "falcon"}); err != nil {
		t.Fatalf("write input: %v", err)
	}
	msg := readType(t, conn, "suggestions")
	if msg.Query != "falcon" {
		t.Fatalf("unexpected query %q", msg.Query)
	}
	if fmt.Sprint(msg.Suggestions) != "[falcon nine falcon bird falcon speed]" {
		t.Fatalf("unexpected suggestions %v", msg.Suggestions)
	}
	if msg.Error != "" {
		t.Fatalf("unexpected error %q", msg.Error)
	}
}

func TestSuggestionSocketForwardsHistoryEvents(t *testing.T) {
	env := setupTestAPIServer(t)
	ts := httptest.NewServer(env.mux)
	defer ts.Close()

	conn, _ := wsDial(t, ts)

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Size() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := env.history.Record("owls"); err != nil {
		t.Fatal(err)
	}
	env.hub.Publish(realtime.HistoryChanged)

	msg := readType(t, conn, realtime.HistoryChanged)
	if fmt.Sprint(msg.Suggestions) != "[owls]" {
		t.Fatalf("expected refreshed history, got %v", msg.Suggestions)
	}
}

func TestReplyGateDropsOlderReplies(t *testing.T) {
	var g replyGate
	first := g.next()
	second := g.next()

	var delivered []uint64
	deliver := func(seq uint64) bool {
		sent, err := g.deliver(seq, func() error {
			delivered = append(delivered, seq)
			return nil
		})
		if err != nil {
			t.Fatalf("deliver %d: %v", seq, err)
		}
		return sent
	}

	// The newer reply goes out first; the older one finishing later is dropped.
	if !deliver(second) {
		t.Fatalf("expected the latest reply to be sent")
	}
	if deliver(first) {
		t.Fatalf("expected the older reply to be dropped")
	}
	if fmt.Sprint(delivered) != "[2]" {
		t.Fatalf("unexpected deliveries %v", delivered)
	}

	sent, err := g.deliver(second, func() error { return errSuperseded })
	if sent || !errors.Is(err, errSuperseded) {
		t.Fatalf("expected the send error to be returned, got %v %v", sent, err)
	}
}
