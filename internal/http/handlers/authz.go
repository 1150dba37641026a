package handlers

import (
	"strings"

	applog "ktmobile/internal/log"
	"ktmobile/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin lets only ADMIN sessions through. Pages redirect to /login;
// JSON routes under /admin/api get 401/403 instead.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		api := strings.HasPrefix(c.Path(), "/admin/api")
		sid := c.Cookies("sid")
		if sid == "" {
			if api {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
			}
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			if api {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}
