package cmd

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/falcony/cmd/web/components"
	"github.com/rubiojr/falcony/cmd/web/components/types"
	"github.com/rubiojr/falcony/pkg/api"
	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/config"
	"github.com/rubiojr/falcony/pkg/log"
	"github.com/rubiojr/falcony/pkg/pagination"
	"github.com/rubiojr/falcony/pkg/realtime"
	"github.com/rubiojr/falcony/pkg/session"
	"github.com/rubiojr/falcony/pkg/settings"
	"github.com/rubiojr/falcony/pkg/suggest"
	"github.com/rubiojr/falcony/pkg/version"
	"github.com/urfave/cli/v3"
)

//go:embed web/static/*
var staticFS embed.FS

var webLog = log.ForService("web")

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start the search UI and JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: "3000",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to",
				Value: "localhost",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	app       *app
	sessions  *session.Manager
	cache     *suggest.CachedFetcher
	hub       *realtime.Hub
	apiServer *api.Server

	cfgMu  sync.RWMutex
	config *config.Config
}

// newWebServer wires sessions, the suggestion cache and the API on top of a.
func newWebServer(a *app) *WebServer {
	cache := suggest.NewCachedFetcher(a.backend, a.cfg.SuggestionCacheTTL.Duration)
	sessions := session.NewManager(session.Dependencies{
		Search:  a.backend,
		Suggest: cache,
		History: a.history,
	}, a.cfg.SessionTTL.Duration)
	hub := realtime.NewHub(0)

	apiServer := api.NewServer(sessions, hub, a.backend.BaseURL)
	apiServer.SetPageSize(a.cfg.PageSize)

	return &WebServer{
		app:       a,
		sessions:  sessions,
		cache:     cache,
		hub:       hub,
		apiServer: apiServer,
		config:    a.cfg,
	}
}

// Handler returns the full HTTP handler. The websocket route bypasses gzip
// so the connection can be hijacked.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes
	s.apiServer.RegisterRoutes(mux)

	// Web UI routes
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /settings", s.handleSettings)
	mux.HandleFunc("POST /settings", s.handleSettingsUpdate)
	mux.HandleFunc("POST /history/clear", s.handleHistoryClear)

	// Static assets
	mux.HandleFunc("GET /static/", s.handleStatic)

	root := http.NewServeMux()
	root.Handle("/ws/", mux)
	root.Handle("/", gzhttp.GzipHandler(api.CorsMiddleware(mux)))
	return root
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	webServer := newWebServer(a)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", host, port),
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		webLog.Infof("Starting web server on http://%s:%s (backend %s)", host, port, a.cfg.BackendURL)
		webLog.Infof("Available endpoints:")
		webLog.Infof("  Web UI:")
		webLog.Infof("    GET / - Home page with recent searches")
		webLog.Infof("    GET /search - Results page")
		webLog.Infof("    GET /settings - Theme, dark mode, SafeSearch and language")
		webLog.Infof("  API:")
		webLog.Infof("    GET /api/search - Search results as JSON")
		webLog.Infof("    GET /api/suggestions - Suggestions as JSON")
		webLog.Infof("    GET /ws/suggestions - Live suggestion stream")
		webLog.Infof("    GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	reloadCtx, cancelReload := context.WithCancel(ctx)
	defer cancelReload()
	go watchConfig(reloadCtx, configPath, webServer.reload)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	}

	webLog.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// reload applies a freshly loaded configuration. Storage settings need a
// restart; everything else takes effect for the next request.
func (s *WebServer) reload(cfg *config.Config) error {
	client, err := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout.Duration)
	if err != nil {
		return fmt.Errorf("creating backend client: %w", err)
	}

	s.cfgMu.Lock()
	old := s.config
	s.config = cfg
	s.cfgMu.Unlock()

	if old.StorageDir != cfg.StorageDir || old.StorageDriver != cfg.StorageDriver {
		webLog.Warnf("storage changes take effect after a restart")
	}
	if old.MaxSuggestions != cfg.MaxSuggestions || old.SessionTTL != cfg.SessionTTL || old.SuggestionCacheTTL != cfg.SuggestionCacheTTL {
		webLog.Warnf("suggestion and session limits take effect after a restart")
	}

	s.app.backend.Set(client)
	s.cache.Purge()
	s.apiServer.SetPageSize(cfg.PageSize)
	s.hub.Publish(realtime.ConfigReloaded)
	webLog.Infof("Configuration reloaded (backend %s, page size %d)", cfg.BackendURL, cfg.PageSize)
	return nil
}

func (s *WebServer) pageSize() int {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.config.PageSize
}

func (s *WebServer) pageData(title string) types.PageData {
	return types.PageData{
		Title:     title,
		Settings:  s.app.settings.Get(),
		Languages: settings.Languages(),
		Version:   version.APIVersion(),
	}
}

// Web UI Handlers

// handleHome resets the session query and shows recent searches
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)

	if query := strings.TrimSpace(r.URL.Query().Get("query")); query != "" {
		http.Redirect(w, r, components.SearchURL(query, 1), http.StatusFound)
		return
	}

	sess.GoHome()
	sess.Results.Reset()

	data := s.pageData("Falcony")
	data.Suggestions = s.app.history.List()

	s.render(w, r, components.Home(data))
}

// handleSearch fetches one page of results for the session and renders the
// outcome of this request. A request superseded by a newer one in the same
// session offers a link to retry it.
func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	sess.Query.SetQuery(query)

	data := s.pageData("Falcony")
	data.Query = query
	data.Page = page
	if query == "" {
		data.Suggestions = s.app.history.List()
		s.render(w, r, components.Search(data))
		return
	}
	data.Title = query + " - Falcony"

	if page == 1 {
		if err := sess.Suggestions.RecordQuery(query); err != nil {
			webLog.Warnf("recording query: %v", err)
		} else {
			s.hub.Publish(realtime.HistoryChanged)
		}
	}

	rp, err := sess.Results.Fetch(r.Context(), query, page, s.pageSize())
	data.Pagination = pagination.NewView(page, rp.TotalPages())
	switch {
	case errors.Is(err, backend.ErrStaleResponse):
		webLog.Debugf("search for %q page %d superseded by a newer request", query, page)
		data.Superseded = true
	case err != nil:
		data.Error = formatFetchError(err)
	case rp.TotalCount == 0:
		data.Empty = true
	default:
		data.Summary = rp.Summary()
		data.Results = make([]types.WebResult, len(rp.Items))
		for i, item := range rp.Items {
			data.Results[i] = components.NewWebResult(item, query)
		}
	}

	s.render(w, r, components.Search(data))
}

// handleSuggestions serves the dropdown markup for clients without a socket
func (s *WebServer) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	query := r.URL.Query().Get("query")
	sess.Query.SetQuery(query)

	list, err := sess.Suggestions.Update(r.Context(), query)
	if errors.Is(err, backend.ErrStaleResponse) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.render(w, r, components.SuggestionList(list))
}

// handleSettings shows the settings form
func (s *WebServer) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, components.Settings(s.pageData("Settings - Falcony")))
}

// handleSettingsUpdate applies the submitted settings form
func (s *WebServer) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	updates := []struct{ key, value string }{
		{settings.KeyThemeColor, r.PostForm.Get("theme_color")},
		{settings.KeyDarkMode, strconv.FormatBool(r.PostForm.Get("dark_mode") == "true")},
		{settings.KeySafeSearch, strconv.FormatBool(r.PostForm.Get("safe_search") == "true")},
		{settings.KeyLanguage, r.PostForm.Get("language")},
	}

	var failures []string
	for _, u := range updates {
		if u.value == "" {
			continue
		}
		if err := s.app.settings.Set(u.key, u.value); err != nil {
			failures = append(failures, err.Error())
		}
	}

	data := s.pageData("Settings - Falcony")
	if len(failures) > 0 {
		data.Error = strings.Join(failures, "; ")
		s.renderStatus(w, r, http.StatusBadRequest, components.Settings(data))
		return
	}
	data.Success = "Settings saved"
	s.hub.Publish(realtime.SettingsChanged)
	s.render(w, r, components.Settings(data))
}

// handleHistoryClear forgets every recorded query
func (s *WebServer) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.app.history.Clear(); err != nil {
		webLog.Errorf("clearing history: %v", err)
		http.Error(w, "Failed to clear history", http.StatusInternalServerError)
		return
	}
	s.hub.Publish(realtime.HistoryChanged)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	} else if strings.HasSuffix(path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		webLog.Warnf("writing static content: %v", err)
	}
}

func (s *WebServer) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	s.renderStatus(w, r, http.StatusOK, c)
}

func (s *WebServer) renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		webLog.Debugf("writing response: %v", err)
	}
}
