package handlers

import (
	"ktmobile/internal/catalog"
	"ktmobile/internal/services"
	"ktmobile/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	Quotes *services.QuoteService
}

// GET /api/v1/quote?id=&storage=&condition=&warranty=&battery=
func (h *QuoteHandler) Quote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		return badRequest(c, "id", "missing phone id")
	}
	storage, ok := validate.Storage(c.Query("storage"))
	if !ok {
		return badRequest(c, "storage", "enter a valid storage option")
	}
	g, ok := validate.Condition(c.Query("condition"))
	if !ok {
		return badRequest(c, "condition", "condition must be excellent, good or fair")
	}
	addons, ok := addOnsFromQuery(c)
	if !ok {
		return badRequest(c, "warranty", "warranty must be 0, 12 or 24 months")
	}
	q, err := h.Quotes.Quote(c.UserContext(), id, catalog.NormalizeStorage(storage), g, addons)
	if err != nil {
		return apiError(c, "quote.fail", err)
	}
	return c.JSON(q)
}
