package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"delice/internal/backend"
	"delice/internal/checkout"
	"delice/internal/config"
	"delice/internal/payment"
	"delice/internal/persist"
	"delice/internal/services"
	"delice/internal/store"
)

type Stores struct {
	Cart     *store.Cart
	Menu     *store.Menu
	Orders   *store.Orders
	Session  *store.Session
	Settings *store.Settings
}

func NewStores() *Stores {
	return &Stores{
		Cart:     store.NewCart(),
		Menu:     store.NewMenu(),
		Orders:   store.NewOrders(),
		Session:  store.NewSession(),
		Settings: store.NewSettings(),
	}
}

type Deps struct {
	Stores *Stores

	Auth     *services.AuthService
	Menu     *services.MenuService
	Orders   *services.OrderService
	Settings *services.SettingsService
	Checkout *checkout.Coordinator

	AuthHandler     *AuthHandler
	MenuHandler     *MenuHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	OrderHandler    *OrderHandler
	SettingsHandler *SettingsHandler
}

func NewDeps(cfg config.Config, state *persist.Store) *Deps {
	stores := NewStores()
	client := backend.New(cfg.BackendURL, cfg.BackendAPIKey)
	gateway := payment.NewGateway(cfg.PaymentInitURL, cfg.PaymentVerifyURL, cfg.BackendAPIKey)

	authSvc := services.NewAuthService(client, state)
	menuSvc := services.NewMenuService(client, stores.Menu, cfg.StorageBucket)
	orderSvc := services.NewOrderService(client, stores.Orders)
	settingsSvc := services.NewSettingsService(client, stores.Settings, state)
	coord := checkout.NewCoordinator(stores.Cart, stores.Session, orderSvc, gateway, cfg.CallbackURL())

	return &Deps{
		Stores:   stores,
		Auth:     authSvc,
		Menu:     menuSvc,
		Orders:   orderSvc,
		Settings: settingsSvc,
		Checkout: coord,

		AuthHandler:     &AuthHandler{Auth: authSvc, Session: stores.Session},
		MenuHandler:     &MenuHandler{Menu: menuSvc, Session: stores.Session},
		CartHandler:     &CartHandler{Cart: stores.Cart, Menu: menuSvc, Session: stores.Session},
		CheckoutHandler: &CheckoutHandler{Checkout: coord, Orders: orderSvc, Session: stores.Session},
		OrderHandler:    &OrderHandler{Orders: orderSvc, Session: stores.Session},
		SettingsHandler: &SettingsHandler{Settings: settingsSvc, Session: stores.Session},
	}
}

// fail maps an error onto a JSON error response. Collaborator errors
// keep their message verbatim and, where sensible, their status.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	var re *backend.RemoteError
	if errors.As(err, &re) && re.Status >= 400 && re.Status < 600 {
		status = re.Status
	}
	switch {
	case errors.Is(err, checkout.ErrCartEmpty):
		status = fiber.StatusBadRequest
	case errors.Is(err, checkout.ErrLoginRequired):
		status = fiber.StatusUnauthorized
	case errors.Is(err, checkout.ErrCancelled):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
