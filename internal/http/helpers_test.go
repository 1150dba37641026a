package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"ktmobile/internal/config"
	"ktmobile/internal/domain"
	"ktmobile/internal/http/handlers"
	"ktmobile/internal/metrics"
	"ktmobile/internal/repos"
	"ktmobile/internal/services"
)

const (
	adminEmail = "admin@ktmobile.test"
	adminPass  = "Passw0rd!"
)

type testApp struct {
	app     *fiber.App
	deps    *handlers.Deps
	users   *repos.UserRepo
	metrics *metrics.Metrics
}

// newTestApp builds the real route table over an in-memory database with one admin account.
func newTestApp(t *testing.T, lim handlers.Limits) *testApp {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", CatalogKey: repos.DefaultCatalogKey}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	if _, err := authSvc.EnsureAdmin(adminEmail, adminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	m := metrics.New()
	deps := handlers.NewDeps(db, repos.NewSQLiteStore(db), cfg, m, nil)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.CSRF())
	app.Use(handlers.AttachUser(authSvc))
	handlers.Mount(app, deps, authSvc, m, lim)
	return &testApp{app: app, deps: deps, users: userRepo, metrics: m}
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken fetches a page to get a fresh token cookie.
func (ta *testApp) csrfToken(t *testing.T) string {
	t.Helper()
	resp, err := ta.app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := cookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

// login posts the login form and returns the session id and csrf token.
func (ta *testApp) login(t *testing.T, email, pass string) (*http.Response, string, string) {
	t.Helper()
	tok := ta.csrfToken(t)
	form := strings.NewReader("csrf=" + tok + "&email=" + email + "&password=" + pass)
	req := httptest.NewRequest("POST", "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp, cookie(resp, "sid"), tok
}

func (ta *testApp) adminSession(t *testing.T) (sid, tok string) {
	t.Helper()
	resp, sid, tok := ta.login(t, adminEmail, adminPass)
	if resp.StatusCode != http.StatusFound || sid == "" {
		t.Fatalf("admin login failed: %d", resp.StatusCode)
	}
	return sid, tok
}

// adminJSON sends an authenticated admin API call with a JSON body.
func (ta *testApp) adminJSON(t *testing.T, method, path, sid, tok string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-CSRF-Token", tok)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

// addPhone creates a displayed phone straight through the service.
func (ta *testApp) addPhone(t *testing.T, in services.PhoneInput) domain.PhoneRecord {
	t.Helper()
	rec, err := ta.deps.Catalog.AddPhone(t.Context(), in)
	if err != nil {
		t.Fatalf("add phone: %v", err)
	}
	return rec
}
