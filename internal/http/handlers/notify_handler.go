package handlers

import (
	"ktmobile/internal/log"
	"ktmobile/internal/services"

	"github.com/gofiber/fiber/v2"
)

type NotifyHandler struct {
	Notify *services.NotifyService
}

// POST /api/v1/notify (JSON or form)
func (h *NotifyHandler) Request(c *fiber.Ctx) error {
	var in services.NotifyInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	req, created, err := h.Notify.Request(c.UserContext(), in)
	if err != nil {
		return apiError(c, "notify.fail", err)
	}
	if created {
		log.Audit(c, "notify.request", map[string]any{"phone_id": req.PhoneID, "storage": req.Storage, "condition": req.Condition})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "id": req.ID})
	}
	return c.JSON(fiber.Map{"ok": true})
}
