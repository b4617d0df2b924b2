package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/spf13/cobra"

	"delice/internal/config"
	"delice/internal/http/handlers"
	applog "delice/internal/log"
	"delice/internal/persist"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "delice",
	Short: "Restaurant ordering service",
	Long:  "delice mediates a restaurant's mobile ordering flow: menu, cart, hosted card checkout, order tracking and a small admin surface, backed by a remote managed backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./delice.yaml)")
}

func run(cfg config.Config) error {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	state, err := persist.Open(cfg.StateDSN, cfg.SealKey)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer state.Close()

	deps := handlers.NewDeps(cfg, state)

	// Session store follows the auth event stream for the app lifetime;
	// the handle is released on shutdown.
	events, release := deps.Auth.Subscribe()
	defer release()
	go func() {
		for ev := range events {
			deps.Stores.Session.Apply(ev)
		}
	}()

	// Restore a previously issued session and local settings snapshot
	// before taking traffic.
	launchCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, ok := deps.Auth.Restore(launchCtx); ok {
		log.Println("[launch] session restored")
	}
	deps.Settings.LoadLocal()
	cancel()

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 8 << 20 // menu photos

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{Max: 120, Expiration: time.Minute}))

	// Public
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/menu", deps.MenuHandler.List)
	app.Get("/settings", deps.SettingsHandler.Get)

	// Auth (login throttled)
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	})
	app.Post("/auth/login", loginLimiter, deps.AuthHandler.Login)
	app.Post("/auth/signup", loginLimiter, deps.AuthHandler.Signup)
	app.Post("/auth/logout", deps.AuthHandler.Logout)
	app.Get("/auth/me", deps.AuthHandler.Me)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart/items", deps.CartHandler.Add)
	app.Put("/cart/items/:id", deps.CartHandler.SetQuantity)
	app.Delete("/cart/items/:id", deps.CartHandler.Remove)
	app.Delete("/cart", deps.CartHandler.Clear)

	// Checkout; the callback is hit by the customer's browser coming
	// back from the hosted payment page.
	app.Post("/checkout", deps.CheckoutHandler.Begin)
	app.Post("/checkout/:id/cancel", deps.CheckoutHandler.Cancel)
	app.Get("/payments/callback", deps.CheckoutHandler.Callback)

	// Orders
	app.Get("/orders", handlers.RequireUser(deps.Stores.Session), deps.OrderHandler.List)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(deps.Stores.Session))
	admin.Post("/menu", deps.MenuHandler.Create)
	admin.Post("/menu/refresh", deps.MenuHandler.Refresh)
	admin.Put("/menu/:id", deps.MenuHandler.Update)
	admin.Delete("/menu/:id", deps.MenuHandler.Delete)
	admin.Post("/menu/:id/image", deps.MenuHandler.UploadImage)
	admin.Post("/orders/:id/advance", deps.OrderHandler.Advance)
	admin.Put("/settings", deps.SettingsHandler.Save)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	return app.Listen(":" + cfg.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
