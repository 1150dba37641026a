package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"ktmobile/internal/http/handlers"
)

func TestAdminPasswordIsHashed(t *testing.T) {
	ta := newTestApp(t, handlers.Limits{})
	var hashes []string
	if err := ta.users.DB.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("expected one seeded admin, got %d", len(hashes))
	}
	h := hashes[0]
	if strings.Contains(h, adminPass) || !strings.HasPrefix(h, "$2") {
		t.Fatalf("unexpected hash format: %s", h)
	}
	if cost, _ := bcrypt.Cost([]byte(h)); cost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cost)
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	ta := newTestApp(t, handlers.Limits{Login: 2})

	resp, _, _ := ta.login(t, adminEmail, "wrongpass!")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if !strings.Contains(readBody(resp), "Invalid email or password") {
		t.Fatal("login page should show a generic error")
	}

	resp, sid, _ := ta.login(t, adminEmail, adminPass)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("admin should land on /admin, got %q", loc)
	}
	if sid == "" {
		t.Fatal("session cookie missing")
	}

	resp, _, _ = ta.login(t, adminEmail, "wrongpass!")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ta := newTestApp(t, handlers.Limits{})
	sid, tok := ta.adminSession(t)

	req := httptest.NewRequest("POST", "/logout", strings.NewReader("csrf="+tok))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after logout, got %d", resp.StatusCode)
	}

	resp = ta.adminJSON(t, "GET", "/admin/api/stats", sid, tok, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("old session must not reach admin API, got %d", resp.StatusCode)
	}
}
