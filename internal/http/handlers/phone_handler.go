package handlers

import (
	"errors"
	"strings"

	"ktmobile/internal/catalog"
	"ktmobile/internal/domain"
	"ktmobile/internal/log"
	"ktmobile/internal/pricing"
	"ktmobile/internal/services"
	"ktmobile/internal/validate"

	"github.com/gofiber/fiber/v2"
)

var errBadQuery = errors.New("bad query")

type PhoneHandler struct {
	Catalog *services.CatalogService
	Quotes  *services.QuoteService
	Inv     *services.InventoryService
}

// listDisplayed applies the optional q and brand filters to the displayed phones.
func (h *PhoneHandler) listDisplayed(c *fiber.Ctx) ([]domain.PhoneRecord, string, error) {
	phones, err := h.Catalog.Displayed(c.UserContext())
	if err != nil {
		return nil, "", err
	}
	brand := strings.TrimSpace(c.Query("brand"))
	rawQ := c.Query("q")
	q := ""
	if strings.TrimSpace(rawQ) != "" {
		var ok bool
		if q, ok = validate.Q(rawQ); !ok {
			return nil, "", errBadQuery
		}
	}
	out := phones[:0:0]
	for _, p := range phones {
		if brand != "" && !strings.EqualFold(p.Brand, brand) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Brand+" "+p.Model), strings.ToLower(q)) {
			continue
		}
		out = append(out, p)
	}
	return out, q, nil
}

// GET /
func (h *PhoneHandler) Home(c *fiber.Ctx) error {
	phones, q, err := h.listDisplayed(c)
	if err == errBadQuery {
		log.Security(c, "validation.fail", map[string]any{"field": "q"})
		return c.Status(fiber.StatusBadRequest).Render("home", fiber.Map{
			"Phones": []domain.PhoneRecord{}, "Err": "Enter a valid keyword (letters/numbers only)",
		})
	}
	if err != nil {
		return err
	}
	brands := map[string]bool{}
	var brandList []string
	for _, p := range phones {
		if !brands[p.Brand] {
			brands[p.Brand] = true
			brandList = append(brandList, p.Brand)
		}
	}
	return render(c, "home", fiber.Map{"Phones": phones, "Q": q, "Brand": c.Query("brand"), "Brands": brandList, "Count": len(phones)})
}

// GET /product/:id?storage=&condition=&warranty=&battery=
func (h *PhoneHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This phone is no longer available")
	}
	s, rec, err := h.Quotes.Session(c.UserContext(), id)
	if err != nil {
		if statusFor(err) == fiber.StatusNotFound {
			return notFound(c, "This phone is no longer available")
		}
		return err
	}

	data := fiber.Map{
		"P":          rec,
		"Conditions": pricing.Conditions(),
		"Colors":     colorSwatches(rec.Colors),
		"Warranty12": pricing.Warranty12Surcharge,
		"Warranty24": pricing.Warranty24Surcharge,
		"Battery":    pricing.BatterySurcharge,
	}
	status := fiber.StatusOK
	if err := applySelection(s, c); err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "selection", "phone_id": id})
		data["Err"] = selectionMessage(err)
		status = statusFor(err)
	}
	data["Storage"] = s.Storage()
	data["Condition"] = string(s.Condition())
	data["AddOns"] = s.AddOns()
	if q, ok := s.Quote(); ok {
		data["Quote"] = q
	}
	return render(c.Status(status), "product", data)
}

// applySelection replays the query-string selection through a Session in
// shopper order: storage, then condition, then add-ons.
func applySelection(s *pricing.Session, c *fiber.Ctx) error {
	if raw := c.Query("storage"); raw != "" {
		if err := s.SelectStorage(catalog.NormalizeStorage(raw)); err != nil {
			return err
		}
	}
	if raw := c.Query("condition"); raw != "" {
		g, ok := validate.Condition(raw)
		if !ok {
			return domain.ErrInvalidVariant
		}
		if err := s.SelectCondition(g); err != nil {
			return err
		}
	}
	addons, ok := addOnsFromQuery(c)
	if !ok {
		return domain.ErrInvalidVariant
	}
	return s.SetAddOns(addons)
}

func addOnsFromQuery(c *fiber.Ctx) (domain.AddOns, bool) {
	w, ok := validate.Warranty(c.Query("warranty"))
	if !ok {
		return domain.AddOns{}, false
	}
	return domain.AddOns{Warranty: w, BatteryUpgrade: validate.Flag(c.Query("battery"))}, true
}

func selectionMessage(err error) string {
	if statusFor(err) == fiber.StatusUnprocessableEntity {
		return "Pricing for this option is not available yet"
	}
	return "That option is not available for this phone"
}

type swatch struct {
	Name string
	Hex  string
}

func colorSwatches(names []string) []swatch {
	out := make([]swatch, 0, len(names))
	for _, n := range names {
		out = append(out, swatch{Name: n, Hex: catalog.ColorHex(n)})
	}
	return out
}

// GET /api/v1/phones?q=&brand=
func (h *PhoneHandler) List(c *fiber.Ctx) error {
	phones, _, err := h.listDisplayed(c)
	if err == errBadQuery {
		return badRequest(c, "q", "enter a valid keyword")
	}
	if err != nil {
		return apiError(c, "phones.list.fail", err)
	}
	return c.JSON(fiber.Map{"phones": phones, "count": len(phones)})
}

// GET /api/v1/phones/:id
func (h *PhoneHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid phone id")
	}
	rec, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return apiError(c, "phones.get.fail", err)
	}
	if !rec.Display {
		return apiError(c, "phones.get.fail", domain.ErrNotFound)
	}
	return c.JSON(rec)
}

// GET /api/v1/availability?id=&storage=&condition=
func (h *PhoneHandler) Availability(c *fiber.Ctx) error {
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
	avail, err := h.Inv.CheckAvailability(c.UserContext(), id, catalog.NormalizeStorage(storage), g)
	if err != nil {
		return apiError(c, "availability.fail", err)
	}
	return c.JSON(avail)
}
