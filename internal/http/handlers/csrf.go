package handlers

import (
	applog "ktmobile/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

var (
	csrfFromHeader = csrf.CsrfFromHeader("X-CSRF-Token")
	csrfFromForm   = csrf.CsrfFromForm("csrf")
)

// CSRFExtractor reads the token from the X-CSRF-Token header (admin JSON
// calls) or the "csrf" form field (HTML forms).
func CSRFExtractor(c *fiber.Ctx) (string, error) {
	if tok, err := csrfFromHeader(c); err == nil {
		return tok, nil
	}
	return csrfFromForm(c)
}

// CSRF is the middleware config shared by the server and its tests.
func CSRF() fiber.Handler {
	return csrf.New(csrf.Config{
		Extractor:      CSRFExtractor,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"error": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	})
}
