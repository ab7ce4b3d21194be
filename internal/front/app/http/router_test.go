package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/adapters/storage"
	"tcofront/internal/front/app/credentials"
	fronthttp "tcofront/internal/front/app/http"
	"tcofront/internal/front/app/http/handlers"
	"tcofront/internal/front/app/profile"
	"tcofront/internal/front/app/services"
	"tcofront/internal/front/app/session"
	"tcofront/internal/front/app/sitedata"
	"tcofront/internal/front/app/user"
	"tcofront/internal/front/app/validation"
	"tcofront/internal/front/config"
	"tcofront/internal/front/metrics"
)

type upstream struct {
	mu           sync.Mutex
	forbidden    bool
	calls        map[string]int
	lastUpdate   map[string]any
	refreshFails bool
}

func (u *upstream) count(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[path]
}

func (u *upstream) set(fn func(u *upstream)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn(u)
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.calls[r.URL.Path]++
	forbidden := u.forbidden
	refreshFails := u.refreshFails
	u.mu.Unlock()

	switch r.URL.Path {
	case api.PathToken:
		login, password, _ := r.BasicAuth()
		if login != "jean" || password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Identifiants invalides"})
			return
		}
		writeJSON(w, http.StatusOK, api.TokenPair{Token: "a1", RefreshToken: "r1"})
	case api.PathRefresh:
		if refreshFails {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
			return
		}
		writeJSON(w, http.StatusOK, api.TokenPair{Token: "a2", RefreshToken: "r2"})
	case "/api/shareData":
		writeJSON(w, http.StatusOK, map[string]any{"energies": map[string]any{"BEV": "Électrique"}})
	case "/api/tco/catalogue":
		if forbidden {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]string{{"uuid": "c1"}})
	case "/api/user":
		writeJSON(w, http.StatusOK, map[string]any{
			"email":               "jean@exemple.fr",
			"field_comptable_nom": "Durand",
		})
	case "/api/user/update":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		u.mu.Lock()
		u.lastUpdate = body
		u.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testApp struct {
	app       *fiber.App
	upstream  *upstream
	session   *session.Manager
	cache     *sitedata.Cache
	redirects *handlers.Redirects
}

func newTestApp(t *testing.T, rec credentials.Record) *testApp {
	t.Helper()
	ctx := context.Background()

	up := &upstream{calls: make(map[string]int)}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	m := metrics.New()
	client, err := api.NewClient(config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, api.WithMetrics(m))
	require.NoError(t, err)

	creds := credentials.NewStore(storage.NewMemoryStore())
	require.NoError(t, creds.Save(ctx, rec))

	mgr, err := session.NewManager(ctx, creds, api.NewAuthClient(client), session.WithMetrics(m))
	require.NoError(t, err)

	redirects := handlers.NewRedirects()
	api.NewAuthInterceptor(mgr, redirects, m).Install(client)

	v := validation.New()
	cache := sitedata.New(services.NewSiteDataService(client), mgr, sitedata.WithMetrics(m))
	users := user.NewStore(services.NewUserService(client))
	editor := profile.NewEditor(users, v)

	app := fiber.New()
	fronthttp.SetupRouter(app, fronthttp.Handlers{
		Auth:       handlers.NewAuthHandler(mgr, v, redirects, cache, users),
		Catalogue:  handlers.NewCatalogueHandler(services.NewCatalogueService(client), redirects),
		Comparo:    handlers.NewComparoHandler(services.NewComparoService(client), redirects),
		Calculator: handlers.NewCalculatorHandler(services.NewCalculatorService(client, v), redirects),
		SiteData:   handlers.NewSiteDataHandler(cache, redirects),
		Profile:    handlers.NewProfileHandler(editor, users, v, redirects),
	}, mgr, m)

	return &testApp{app: app, upstream: up, session: mgr, cache: cache, redirects: redirects}
}

func (a *testApp) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

var authenticated = credentials.Record{Token: "a1", RefreshToken: "r1"}

func TestRouter_LoginAndSession(t *testing.T) {
	a := newTestApp(t, credentials.Record{})

	resp, body := a.do(t, http.MethodPost, "/auth/login", `{"login":"jean","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = a.do(t, http.MethodGet, "/auth/session", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["authenticated"])
	assert.NotContains(t, body, "token", "tokens never leave the process")
}

func TestRouter_LoginDropsStaleRedirect(t *testing.T) {
	a := newTestApp(t, credentials.Record{})
	a.redirects.Navigate(context.Background(), api.SessionExpiredRoute())

	resp, _ := a.do(t, http.MethodPost, "/auth/login", `{"login":"jean","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := a.do(t, http.MethodGet, "/auth/session", "")
	assert.Equal(t, true, body["authenticated"])
	assert.Empty(t, body["redirect"])
}

func TestRouter_LoginRejected(t *testing.T) {
	a := newTestApp(t, credentials.Record{})

	resp, body := a.do(t, http.MethodPost, "/auth/login", `{"login":"jean","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Identifiants invalides", body["error"])
	assert.False(t, a.session.IsAuthenticated())
}

func TestRouter_LoginValidation(t *testing.T) {
	a := newTestApp(t, credentials.Record{})

	resp, body := a.do(t, http.MethodPost, "/auth/login", `{"login":"jean"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "fields")
	assert.Zero(t, a.upstream.count(api.PathToken))
}

func TestRouter_ProtectedWithoutSession(t *testing.T) {
	a := newTestApp(t, credentials.Record{})

	resp, body := a.do(t, http.MethodGet, "/api/catalogues", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, api.LoginRoute, body["redirect"])
	assert.Zero(t, a.upstream.count("/api/tco/catalogue"))
}

func TestRouter_CatalogueList(t *testing.T) {
	a := newTestApp(t, authenticated)

	resp, body := a.do(t, http.MethodGet, "/api/catalogues", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
}

func TestRouter_SessionExpiredRedirects(t *testing.T) {
	a := newTestApp(t, authenticated)
	a.upstream.set(func(u *upstream) { u.forbidden = true })

	resp, body := a.do(t, http.MethodGet, "/api/catalogues", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, api.SessionExpiredRoute(), body["redirect"])
	assert.Equal(t, 1, a.upstream.count(api.PathRefresh))
	assert.False(t, a.session.IsAuthenticated())

	_, body = a.do(t, http.MethodGet, "/auth/session", "")
	assert.Empty(t, body["redirect"], "redirect already delivered")
}

func TestRouter_RefreshFailureRedirects(t *testing.T) {
	a := newTestApp(t, authenticated)
	a.upstream.set(func(u *upstream) { u.refreshFails = true })

	resp, body := a.do(t, http.MethodPost, "/auth/refresh", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, api.SessionExpiredRoute(), body["redirect"])
	assert.Empty(t, a.session.RefreshToken())
}

func TestRouter_SiteData(t *testing.T) {
	a := newTestApp(t, authenticated)

	resp, _ := a.do(t, http.MethodGet, "/api/site-data", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := a.do(t, http.MethodGet, "/api/site-data/energies/BEV", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Électrique", body["data"])
	assert.Equal(t, 1, a.upstream.count("/api/shareData"), "second read served from cache")

	resp, _ = a.do(t, http.MethodGet, "/api/site-data/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_LogoutResetsCaches(t *testing.T) {
	a := newTestApp(t, authenticated)

	resp, _ := a.do(t, http.MethodGet, "/api/site-data", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.False(t, a.session.IsAuthenticated())
	assert.Nil(t, a.cache.Data())
}

func TestRouter_CalculatorValidation(t *testing.T) {
	a := newTestApp(t, authenticated)

	resp, body := a.do(t, http.MethodPost, "/api/calculators/taxes", `{"typeFiscal":"XX","energie":"BEV","duree":1}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "fields")
	assert.Zero(t, a.upstream.count("/api/calculateur-taxe"))
}

func TestRouter_ProfileToggleAndSave(t *testing.T) {
	a := newTestApp(t, authenticated)

	resp, body := a.do(t, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["showComptableInfo"])

	resp, body = a.do(t, http.MethodPost, "/api/profile/comptable", `{"show":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	form := body["data"].(map[string]any)["form"].(map[string]any)
	assert.Equal(t, "", form["comptable_nom"])

	resp, body = a.do(t, http.MethodPut, "/api/profile",
		`{"form":{"commercial_nom":"Martin","comptable_nom":"Ignoré","user_connaissance":["salon"]},"showComptableInfo":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	note := body["notification"].(map[string]any)
	assert.Equal(t, profile.TitleSaved, note["title"])

	a.upstream.mu.Lock()
	sent := a.upstream.lastUpdate
	a.upstream.mu.Unlock()
	assert.Equal(t, "Martin", sent["field_commercial_nom"])
	assert.Equal(t, "", sent["field_comptable_nom"])
}

func TestRouter_RequestIDAndMetrics(t *testing.T) {
	a := newTestApp(t, credentials.Record{})

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set(api.HeaderRequestID, "req-42")
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(api.HeaderRequestID))

	resp, _ = a.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
