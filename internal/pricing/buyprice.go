package pricing

import "ktmobile/internal/domain"

// Condition discounts in percent of the excellent price.
const (
	goodPercent = 95
	fairPercent = 85
)

// roundPercent computes round(p * pct / 100) with ties going up, in integers
// so that 0.95 and 0.85 never drift through float representation.
func roundPercent(p, pct int) int {
	if p <= 0 {
		return 0
	}
	return (p*pct + 50) / 100
}

// DeriveBuyPrices turns one used price into the three grade prices.
func DeriveBuyPrices(p int) domain.GradePrices {
	if p < 0 {
		p = 0
	}
	return domain.GradePrices{
		domain.Excellent: p,
		domain.Good:      roundPercent(p, goodPercent),
		domain.Fair:      roundPercent(p, fairPercent),
	}
}

// DeriveBuyPriceTable applies DeriveBuyPrices to every storage.
func DeriveBuyPriceTable(used domain.PriceTable) domain.BuyPriceTable {
	out := make(domain.BuyPriceTable, len(used))
	for k, p := range used {
		out[k] = DeriveBuyPrices(p)
	}
	return out
}

// Ordered reports whether fair <= good <= excellent for the given grade prices.
// Missing grades are not checked.
func Ordered(gp domain.GradePrices) bool {
	ex, hasEx := gp[domain.Excellent]
	gd, hasGd := gp[domain.Good]
	fr, hasFr := gp[domain.Fair]
	if hasEx && hasGd && gd > ex {
		return false
	}
	if hasGd && hasFr && fr > gd {
		return false
	}
	if hasEx && hasFr && !hasGd && fr > ex {
		return false
	}
	return true
}
