package catalog

import (
	"fmt"

	"ktmobile/internal/domain"
	"ktmobile/internal/pricing"
)

// Validate checks the record invariants: storages equal the price key union,
// basePrice is the derived minimum, buy prices are ordered and only exist for
// sold storages, and no count or price is negative.
func Validate(rec domain.PhoneRecord) error {
	if rec.ID == "" || rec.Brand == "" || rec.Model == "" {
		return fmt.Errorf("%w: id, brand and model are required", domain.ErrInvalidRecord)
	}
	want := StorageUnion(rec.StoragePrices, rec.NewPhonePrices)
	if len(want) != len(rec.Storages) {
		return fmt.Errorf("%w: %s storages %v do not match priced variants %v", domain.ErrInvalidRecord, rec.ID, rec.Storages, want)
	}
	for _, s := range want {
		if !rec.HasStorage(s) {
			return fmt.Errorf("%w: %s storages %v do not match priced variants %v", domain.ErrInvalidRecord, rec.ID, rec.Storages, want)
		}
	}
	for _, t := range []domain.PriceTable{rec.StoragePrices, rec.NewPhonePrices} {
		for k, v := range t {
			if v < 0 {
				return fmt.Errorf("%w: %s negative price for %s", domain.ErrInvalidRecord, rec.ID, k)
			}
		}
	}
	if bp := BasePrice(rec.StoragePrices, rec.NewPhonePrices); bp != rec.BasePrice {
		return fmt.Errorf("%w: %s basePrice %d, want %d", domain.ErrInvalidRecord, rec.ID, rec.BasePrice, bp)
	}
	for _, k := range rec.BuyOverrides {
		if !rec.HasStorage(k) {
			return fmt.Errorf("%w: %s buy price override for unknown storage %s", domain.ErrInvalidRecord, rec.ID, k)
		}
	}
	for k, gp := range rec.BuyPrices {
		if !rec.HasStorage(k) {
			return fmt.Errorf("%w: %s buy prices for unknown storage %s", domain.ErrInvalidRecord, rec.ID, k)
		}
		if !pricing.Ordered(gp) {
			return fmt.Errorf("%w: %s buy prices for %s are not ordered excellent >= good >= fair", domain.ErrInvalidRecord, rec.ID, k)
		}
		for g, v := range gp {
			if !g.Valid() || v < 0 {
				return fmt.Errorf("%w: %s bad buy price %s/%s", domain.ErrInvalidRecord, rec.ID, k, g)
			}
		}
	}
	for k, row := range rec.Quantities {
		for g, q := range row {
			if !g.Valid() || q < 0 {
				return fmt.Errorf("%w: %s bad quantity %s/%s", domain.ErrInvalidRecord, rec.ID, k, g)
			}
		}
	}
	return nil
}

// ValidateAll checks every record plus id and (brand, model) uniqueness.
func ValidateAll(records []domain.PhoneRecord) error {
	ids := map[string]bool{}
	keys := map[string]string{}
	for _, r := range records {
		if err := Validate(r); err != nil {
			return err
		}
		if ids[r.ID] {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidRecord, r.ID)
		}
		ids[r.ID] = true
		k := Key(r.Brand, r.Model)
		if other, ok := keys[k]; ok {
			return fmt.Errorf("%w: %s %s (ids %s, %s)", domain.ErrDuplicate, r.Brand, r.Model, other, r.ID)
		}
		keys[k] = r.ID
	}
	return nil
}
