package pricing

import (
	"fmt"

	"ktmobile/internal/domain"
)

// Fixed add-on surcharges in SGD.
const (
	Warranty12Surcharge = 99
	Warranty24Surcharge = 179
	BatterySurcharge    = 89

	// Installments is the number of interest-free payments shown for financing.
	Installments = 4
)

// Surcharge sums the add-on prices. An unknown warranty term is rejected.
func Surcharge(a domain.AddOns) (int, error) {
	total := 0
	switch a.Warranty {
	case domain.WarrantyOff:
	case domain.Warranty12:
		total += Warranty12Surcharge
	case domain.Warranty24:
		total += Warranty24Surcharge
	default:
		return 0, fmt.Errorf("unsupported warranty term %d months", a.Warranty)
	}
	if a.BatteryUpgrade {
		total += BatterySurcharge
	}
	return total, nil
}

// Quote prices one exact variant of rec. Zero stock is not an error: the
// total is still computed and Available is false.
func Quote(rec domain.PhoneRecord, storage string, grade domain.Grade, addons domain.AddOns) (domain.Quote, error) {
	if !rec.HasStorage(storage) {
		return domain.Quote{}, fmt.Errorf("%w: %s has no %q", domain.ErrInvalidVariant, rec.Model, storage)
	}
	if !grade.Valid() {
		return domain.Quote{}, fmt.Errorf("%w: unknown condition %q", domain.ErrInvalidVariant, grade)
	}
	base, ok := rec.BuyPrices[storage][grade]
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: %s %s %s", domain.ErrPricingNotConfigured, rec.Model, storage, grade)
	}
	extra, err := Surcharge(addons)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: %v", domain.ErrInvalidVariant, err)
	}
	total := base + extra
	if total < 0 {
		total = 0
	}
	qty := rec.Quantity(storage, grade)
	if qty < 0 {
		qty = 0
	}
	return domain.Quote{
		PhoneID:           rec.ID,
		Storage:           storage,
		Condition:         grade,
		UnitPrice:         base,
		Surcharge:         extra,
		TotalPrice:        total,
		Installment:       InstallmentAmount(total),
		Installments:      Installments,
		Available:         qty > 0,
		QuantityRemaining: qty,
	}, nil
}

// InstallmentAmount is round(total / Installments), ties up.
func InstallmentAmount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total*2 + Installments) / (2 * Installments)
}
