package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestOrdersRequireLogin(t *testing.T) {
	app, _ := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unauthenticated request must not reach the backend: %s", r.URL.Path)
	})
	resp := doJSON(t, app, "GET", "/orders", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAdminDeniedWithoutSession(t *testing.T) {
	app, _ := newApp(t, func(w http.ResponseWriter, r *http.Request) {})
	resp := doJSON(t, app, "PUT", "/admin/settings", `{"restaurant_name":"X"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAdminDeniedForCustomer(t *testing.T) {
	app, deps := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("forbidden request must not reach the backend: %s", r.URL.Path)
	})
	signIn(deps, "customer")
	resp := doJSON(t, app, "PUT", "/admin/settings", `{"restaurant_name":"X"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAdminSettingsSaveForAdmin(t *testing.T) {
	var upserted bool
	app, deps := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/v1/settings" && r.Method == "POST" {
			upserted = true
			w.Write([]byte(`[{"id":"singleton","restaurant_name":"Delice Tearoom"}]`))
			return
		}
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	signIn(deps, "admin")

	resp := doJSON(t, app, "PUT", "/admin/settings", `{"restaurant_name":"Delice Tearoom"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !upserted {
		t.Fatal("settings save should reach the backend")
	}
	if cur, ok := deps.Stores.Settings.Current(); !ok || cur.RestaurantName != "Delice Tearoom" {
		t.Fatalf("saved settings should land in the store, got %+v", cur)
	}
}

func TestLoginSuccessAndFailure(t *testing.T) {
	app, _ := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		if body["password"] == "rightpass" {
			w.Write([]byte(`{"access_token":"at","refresh_token":"rt","user":{"email":"a@b.test"}}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	})

	resp := doJSON(t, app, "POST", "/auth/login", `{"email":"a@b.test","password":"rightpass"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if out.User.Email != "a@b.test" {
		t.Fatalf("unexpected login body %+v", out)
	}

	resp = doJSON(t, app, "POST", "/auth/login", `{"email":"a@b.test","password":"wrong"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected the backend status to pass through, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "Invalid login credentials") {
		t.Fatalf("collaborator message should surface verbatim, got %s", b)
	}
}

func TestLoginRejectsMalformedInput(t *testing.T) {
	app, _ := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid input must be rejected before the backend")
	})
	for _, body := range []string{
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"a@b.test","password":""}`,
		`{}`,
	} {
		resp := doJSON(t, app, "POST", "/auth/login", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestMeReflectsSession(t *testing.T) {
	app, deps := newApp(t, func(w http.ResponseWriter, r *http.Request) {})

	resp := doJSON(t, app, "GET", "/auth/me", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", resp.StatusCode)
	}

	signIn(deps, "customer")
	resp = doJSON(t, app, "GET", "/auth/me", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "user@delice.test") {
		t.Fatalf("me should echo the session user, got %s", b)
	}
}
