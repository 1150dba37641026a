package handlers

import (
	"strings"

	"ktmobile/internal/catalog"
	applog "ktmobile/internal/log"
	"ktmobile/internal/services"
	"ktmobile/internal/sources"
	"ktmobile/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
	Imports *services.ImportService
	Notify  *services.NotifyService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	phones, err := h.Catalog.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}
	stats := catalog.Stats(phones)
	reqs, err := h.Notify.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load notify requests"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Phones": phones, "Stats": stats, "Requests": reqs})
}

// GET /admin/api/phones
func (h *AdminHandler) ListPhones(c *fiber.Ctx) error {
	phones, err := h.Catalog.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return apiError(c, "admin.phones.list.fail", err)
	}
	return c.JSON(fiber.Map{"phones": phones, "count": len(phones)})
}

// POST /admin/api/phones
func (h *AdminHandler) CreatePhone(c *fiber.Ctx) error {
	var in services.PhoneInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if err := validate.Struct(in); err != nil {
		return badRequest(c, "phone", "brand and model are required")
	}
	brand, okB := validate.Brand(in.Brand)
	model, okM := validate.Model(in.Model)
	if !okB || !okM {
		return badRequest(c, "phone", "invalid brand or model")
	}
	in.Brand, in.Model = brand, model
	rec, err := h.Catalog.AddPhone(c.UserContext(), in)
	if err != nil {
		return apiError(c, "admin.phones.add.fail", err)
	}
	applog.Audit(c, "admin.phones.add", map[string]any{"phone_id": rec.ID})
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GET /admin/api/phones/:id
func (h *AdminHandler) GetPhone(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid phone id")
	}
	rec, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return apiError(c, "admin.phones.get.fail", err)
	}
	return c.JSON(rec)
}

// PUT /admin/api/phones/:id
func (h *AdminHandler) UpdatePhone(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid phone id")
	}
	var e services.PhoneEdit
	if err := c.BodyParser(&e); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if e.Brand != nil {
		b, ok := validate.Brand(*e.Brand)
		if !ok {
			return badRequest(c, "brand", "invalid brand")
		}
		e.Brand = &b
	}
	if e.Model != nil {
		m, ok := validate.Model(*e.Model)
		if !ok {
			return badRequest(c, "model", "invalid model")
		}
		e.Model = &m
	}
	rec, err := h.Catalog.EditPhone(c.UserContext(), id, e)
	if err != nil {
		return apiError(c, "admin.phones.edit.fail", err)
	}
	applog.Audit(c, "admin.phones.edit", map[string]any{"phone_id": id})
	return c.JSON(rec)
}

// DELETE /admin/api/phones/:id
func (h *AdminHandler) DeletePhone(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid phone id")
	}
	if err := h.Catalog.DeletePhone(c.UserContext(), id); err != nil {
		return apiError(c, "admin.phones.delete.fail", err)
	}
	applog.Audit(c, "admin.phones.delete", map[string]any{"phone_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/api/phones/:id/display (form or JSON "display")
func (h *AdminHandler) SetDisplay(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid phone id")
	}
	display := validate.Flag(c.FormValue("display"))
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var body struct {
			Display bool `json:"display"`
		}
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "body", "invalid request body")
		}
		display = body.Display
	}
	rec, err := h.Catalog.SetDisplay(c.UserContext(), id, display)
	if err != nil {
		return apiError(c, "admin.phones.display.fail", err)
	}
	applog.Audit(c, "admin.phones.display", map[string]any{"phone_id": id, "display": display})
	return c.JSON(rec)
}

// POST /admin/api/phones/:id/stock (storage, condition, qty, mode=add|set)
func (h *AdminHandler) Stock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid phone id")
	}
	var body struct {
		Storage   string `json:"storage" form:"storage"`
		Condition string `json:"condition" form:"condition"`
		Qty       int    `json:"qty" form:"qty"`
		Mode      string `json:"mode" form:"mode"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	storage, ok := validate.Storage(body.Storage)
	if !ok {
		return badRequest(c, "storage", "enter a valid storage option")
	}
	g, ok := validate.Condition(body.Condition)
	if !ok {
		return badRequest(c, "condition", "condition must be excellent, good or fair")
	}
	qty := body.Qty

	var (
		n   int
		err error
	)
	switch strings.ToLower(strings.TrimSpace(body.Mode)) {
	case "", "add":
		n, err = h.Inv.StockIn(c.UserContext(), id, storage, g, qty)
	case "set":
		n, err = h.Inv.SetQuantity(c.UserContext(), id, storage, g, qty)
	default:
		return badRequest(c, "mode", "mode must be add or set")
	}
	if err != nil {
		return apiError(c, "admin.stock.fail", err)
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"phone_id": id, "storage": storage, "condition": string(g), "qty": n, "mode": body.Mode})
	return c.JSON(fiber.Map{"phoneId": id, "storage": catalog.NormalizeStorage(storage), "condition": g, "quantity": n})
}

// POST /admin/api/import (multipart "sheet" files; "seed" also merges the bundled sheets)
func (h *AdminHandler) Import(c *fiber.Ctx) error {
	var sheets []sources.Sheet
	if validate.Flag(c.FormValue("seed")) {
		seed, err := sources.Seed()
		if err != nil {
			return apiError(c, "admin.import.fail", err)
		}
		sheets = append(sheets, seed...)
	}
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["sheet"] {
			f, err := fh.Open()
			if err != nil {
				return apiError(c, "admin.import.fail", err)
			}
			sh, err := sources.Decode(f)
			_ = f.Close()
			if err != nil {
				applog.Security(c, "admin.import.reject", map[string]any{"file": fh.Filename})
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			sheets = append(sheets, sh)
		}
	}
	if len(sheets) == 0 {
		return badRequest(c, "sheet", "upload at least one price sheet")
	}
	rep, err := h.Imports.Run(c.UserContext(), sheets)
	if err != nil {
		return apiError(c, "admin.import.fail", err)
	}
	applog.Audit(c, "admin.import", map[string]any{"added": rep.Added, "updated": rep.Updated, "skipped": rep.Skipped, "sources": rep.Sources})
	return c.JSON(rep)
}

// GET /admin/api/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Catalog.Stats(c.UserContext())
	if err != nil {
		return apiError(c, "admin.stats.fail", err)
	}
	return c.JSON(st)
}

// GET /admin/api/notify
func (h *AdminHandler) NotifyRequests(c *fiber.Ctx) error {
	reqs, err := h.Notify.List(c.UserContext())
	if err != nil {
		return apiError(c, "admin.notify.list.fail", err)
	}
	return c.JSON(fiber.Map{"requests": reqs, "count": len(reqs)})
}
