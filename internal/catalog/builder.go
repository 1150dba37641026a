package catalog

import (
	"fmt"
	"strings"
	"time"

	"ktmobile/internal/domain"
	"ktmobile/internal/pricing"

	"github.com/gosimple/slug"
)

// Outcome tells the caller what Apply did.
type Outcome int

const (
	Added Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Updated:
		return "updated"
	}
	return "none"
}

// Input is one model's merged prices plus optional metadata overrides.
// A nil Image or Colors leaves the existing value alone on update.
type Input struct {
	Brand  string
	Model  string
	Used   domain.PriceTable
	New    domain.PriceTable
	Image  *string
	Colors []string
}

// Builder creates and refreshes catalog records from merged prices.
type Builder struct {
	Images ImageResolver
	Colors ColorResolver
	Now    func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{Images: DefaultImages{}, Colors: KnownColors{}, Now: time.Now}
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now().UTC()
	}
	return b.Now().UTC()
}

// Apply builds a new record for in, or updates the matching one, and returns
// the record's index. The slice is modified in place when updating and
// appended to when adding.
func (b *Builder) Apply(records []domain.PhoneRecord, in Input) ([]domain.PhoneRecord, int, Outcome, error) {
	brand := strings.TrimSpace(in.Brand)
	model := strings.TrimSpace(in.Model)
	if brand == "" || model == "" {
		return records, -1, 0, fmt.Errorf("%w: brand and model are required", domain.ErrInvalidRecord)
	}
	if len(in.Used) == 0 && len(in.New) == 0 {
		return records, -1, 0, fmt.Errorf("%w: %s %s", domain.ErrNoPrices, brand, model)
	}
	for _, t := range []domain.PriceTable{in.Used, in.New} {
		for k, v := range t {
			if v < 0 {
				return records, -1, 0, fmt.Errorf("%w: %s %s %s = %d", domain.ErrInvalidRecord, brand, model, k, v)
			}
		}
	}

	if i := Find(records, brand, model); i >= 0 {
		records[i] = b.update(records[i], in)
		return records, i, Updated, nil
	}
	rec := b.create(brand, model, in)
	rec.ID = uniqueID(records, rec.ID)
	return append(records, rec), len(records), Added, nil
}

// uniqueID suffixes id when another record already uses it, which happens
// when two models slug alike ("Galaxy S25" and "Galaxy S25+") in the same millisecond.
func uniqueID(records []domain.PhoneRecord, id string) string {
	cand := id
	for n := 2; FindByID(records, cand) >= 0; n++ {
		cand = fmt.Sprintf("%s-%d", id, n)
	}
	return cand
}

func (b *Builder) create(brand, model string, in Input) domain.PhoneRecord {
	now := b.now()
	rec := domain.PhoneRecord{
		ID:        NewID(brand, model, now),
		Brand:     brand,
		Model:     model,
		Colors:    []string{},
		Display:   true,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	setPrices(&rec, in.Used, in.New)
	rec.BuyPrices = pricing.DeriveBuyPriceTable(rec.StoragePrices)
	rec.Quantities = domain.QuantityTable{}
	fillQuantities(&rec)

	switch {
	case in.Image != nil:
		rec.Image = *in.Image
	case b.Images != nil:
		rec.Image = b.Images.Image(brand, model)
	}
	switch {
	case in.Colors != nil:
		rec.Colors = append([]string{}, in.Colors...)
	case b.Colors != nil:
		rec.Colors = append([]string{}, b.Colors.Colors(brand, model)...)
	}
	return rec
}

func (b *Builder) update(rec domain.PhoneRecord, in Input) domain.PhoneRecord {
	rec = rec.Clone()
	rec.StoragePrices = in.Used
	rec.NewPhonePrices = in.New
	Reprice(&rec)

	if in.Image != nil {
		rec.Image = *in.Image
	}
	if in.Colors != nil {
		rec.Colors = append([]string{}, in.Colors...)
	}
	if rec.Colors == nil {
		rec.Colors = []string{}
	}
	rec.UpdatedAt = b.now()
	return rec
}

// setPrices replaces both price tables and recomputes storages and basePrice.
func setPrices(rec *domain.PhoneRecord, used, fresh domain.PriceTable) {
	rec.StoragePrices = copyTable(used)
	rec.NewPhonePrices = copyTable(fresh)
	rec.Storages = StorageUnion(rec.StoragePrices, rec.NewPhonePrices)
	rec.BasePrice = BasePrice(rec.StoragePrices, rec.NewPhonePrices)
}

// BasePrice is the lowest used price, else the lowest new price, else 0.
func BasePrice(used, fresh domain.PriceTable) int {
	if m, ok := pricing.Min(used); ok {
		return m
	}
	if m, ok := pricing.Min(fresh); ok {
		return m
	}
	return 0
}

// Reprice recomputes storages, basePrice, buyPrices and quantity rows from the
// two price tables. Buy prices for every storage with a used price are derived
// again unless an admin override is recorded for it. Storages that no longer
// have a used price lose derived buy prices; overrides last while the storage
// is sold. Quantity rows are never removed.
func Reprice(rec *domain.PhoneRecord) {
	setPrices(rec, rec.StoragePrices, rec.NewPhonePrices)
	if rec.BuyPrices == nil {
		rec.BuyPrices = domain.BuyPriceTable{}
	}
	var overrides []string
	for _, s := range rec.BuyOverrides {
		if rec.HasStorage(s) {
			overrides = append(overrides, s)
		}
	}
	rec.BuyOverrides = overrides
	for k := range rec.BuyPrices {
		if rec.HasBuyOverride(k) {
			continue
		}
		if _, ok := rec.StoragePrices[k]; !ok {
			delete(rec.BuyPrices, k)
		}
	}
	for k, p := range rec.StoragePrices {
		if !rec.HasBuyOverride(k) {
			rec.BuyPrices[k] = pricing.DeriveBuyPrices(p)
		}
	}
	if rec.Quantities == nil {
		rec.Quantities = domain.QuantityTable{}
	}
	fillQuantities(rec)
}

// fillQuantities adds zero rows for storages that have none. Existing counts are untouched.
func fillQuantities(rec *domain.PhoneRecord) {
	for _, s := range rec.Storages {
		row, ok := rec.Quantities[s]
		if !ok {
			row = domain.GradeCounts{}
			rec.Quantities[s] = row
		}
		for _, g := range domain.Grades {
			if _, ok := row[g]; !ok {
				row[g] = 0
			}
		}
	}
}

func copyTable(t domain.PriceTable) domain.PriceTable {
	out := make(domain.PriceTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// NewID derives the stable record id: brand and model slugs plus creation time in ms.
func NewID(brand, model string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d", slug.Make(brand), slug.Make(model), at.UnixMilli())
}
