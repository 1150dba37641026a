package handlers

import (
	"strings"
	"time"

	applog "ktmobile/internal/log"
	"ktmobile/internal/metrics"
	"ktmobile/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Limits are per-IP request budgets. Zero values fall back to the defaults.
type Limits struct {
	Global int // per minute, all routes except static files
	Login  int // per 10 minutes
	API    int // per 30 seconds on quote and availability
}

func (l Limits) withDefaults() Limits {
	if l.Global == 0 {
		l.Global = 120
	}
	if l.Login == 0 {
		l.Login = 5
	}
	if l.API == 0 {
		l.API = 30
	}
	return l
}

// AttachUser puts the logged-in user into Locals for templates and logs.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// Mount registers the storefront, API, auth and admin routes plus the 404 fallback.
func Mount(app *fiber.App, d *Deps, auth *services.AuthService, m *metrics.Metrics, lim Limits) {
	lim = lim.withDefaults()
	authH := &AuthHandler{Auth: auth}

	app.Use(limiter.New(limiter.Config{
		Max:        lim.Global,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/images/") || p == "/healthz" || p == "/metrics"
		},
	}))

	// Public pages
	app.Get("/", d.PhoneHandler.Home)
	app.Get("/product", func(c *fiber.Ctx) error { return notFound(c, "This phone is no longer available") })
	app.Get("/product/:id", d.PhoneHandler.Detail)

	// API
	apiLimiter := limiter.New(limiter.Config{
		Max:        lim.API,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|api"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api := app.Group("/api/v1")
	api.Get("/phones", d.PhoneHandler.List)
	api.Get("/phones/:id", d.PhoneHandler.Get)
	api.Get("/quote", apiLimiter, d.QuoteHandler.Quote)
	api.Get("/availability", apiLimiter, d.PhoneHandler.Availability)
	api.Post("/notify", apiLimiter, d.NotifyHandler.Request)

	// Auth
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        lim.Login,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Admin
	admin := app.Group("/admin", RequireAdmin(auth))
	admin.Get("/", d.AdminHandler.Dashboard)
	adminAPI := admin.Group("/api")
	adminAPI.Get("/phones", d.AdminHandler.ListPhones)
	adminAPI.Post("/phones", d.AdminHandler.CreatePhone)
	adminAPI.Get("/phones/:id", d.AdminHandler.GetPhone)
	adminAPI.Put("/phones/:id", d.AdminHandler.UpdatePhone)
	adminAPI.Delete("/phones/:id", d.AdminHandler.DeletePhone)
	adminAPI.Post("/phones/:id/display", d.AdminHandler.SetDisplay)
	adminAPI.Post("/phones/:id/stock", d.AdminHandler.Stock)
	adminAPI.Post("/import", d.AdminHandler.Import)
	adminAPI.Get("/stats", d.AdminHandler.Stats)
	adminAPI.Get("/notify", d.AdminHandler.NotifyRequests)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page not found")
	})
}

// ErrorHandler logs the failure and renders a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	status := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
		status = fe.Code
	}
	msg := "Something went wrong. Please try again."
	if status == fiber.StatusNotFound {
		msg = "Page not found"
	}
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}
