package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"delice/internal/config"
	"delice/internal/domain"
	"delice/internal/http/handlers"
	"delice/internal/persist"
)

// newApp assembles the real route table against a stubbed remote
// backend, mirroring the wiring in cmd/delice.
func newApp(t *testing.T, backendFn http.HandlerFunc) (*fiber.App, *handlers.Deps) {
	t.Helper()
	srv := httptest.NewServer(backendFn)
	t.Cleanup(srv.Close)

	state, err := persist.Open(":memory:", "test-key")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { state.Close() })

	cfg := config.Config{
		PublicBaseURL:    "http://localhost:8080",
		BackendURL:       srv.URL,
		BackendAPIKey:    "anon",
		StorageBucket:    "menu-images",
		PaymentInitURL:   srv.URL + "/functions/v1/paystack-init",
		PaymentVerifyURL: srv.URL + "/functions/v1/paystack-verify",
	}
	deps := handlers.NewDeps(cfg, state)

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Get("/menu", deps.MenuHandler.List)
	app.Get("/settings", deps.SettingsHandler.Get)

	app.Post("/auth/login", deps.AuthHandler.Login)
	app.Post("/auth/signup", deps.AuthHandler.Signup)
	app.Post("/auth/logout", deps.AuthHandler.Logout)
	app.Get("/auth/me", deps.AuthHandler.Me)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart/items", deps.CartHandler.Add)
	app.Put("/cart/items/:id", deps.CartHandler.SetQuantity)
	app.Delete("/cart/items/:id", deps.CartHandler.Remove)
	app.Delete("/cart", deps.CartHandler.Clear)

	app.Post("/checkout", deps.CheckoutHandler.Begin)
	app.Post("/checkout/:id/cancel", deps.CheckoutHandler.Cancel)
	app.Get("/payments/callback", deps.CheckoutHandler.Callback)

	app.Get("/orders", handlers.RequireUser(deps.Stores.Session), deps.OrderHandler.List)

	admin := app.Group("/admin", handlers.RequireAdmin(deps.Stores.Session))
	admin.Post("/menu", deps.MenuHandler.Create)
	admin.Post("/menu/refresh", deps.MenuHandler.Refresh)
	admin.Put("/menu/:id", deps.MenuHandler.Update)
	admin.Delete("/menu/:id", deps.MenuHandler.Delete)
	admin.Post("/menu/:id/image", deps.MenuHandler.UploadImage)
	admin.Post("/orders/:id/advance", deps.OrderHandler.Advance)
	admin.Put("/settings", deps.SettingsHandler.Save)

	return app, deps
}

// signIn drops a session straight into the mirror store, sidestepping
// the event plumbing the cmd wiring runs.
func signIn(deps *handlers.Deps, role string) {
	deps.Stores.Session.Apply(domain.AuthEvent{Type: domain.EventSignedIn, Session: domain.Session{
		AccessToken:  "tok",
		RefreshToken: "rtok",
		User:         domain.User{Email: "user@delice.test", Role: role},
	}})
}
