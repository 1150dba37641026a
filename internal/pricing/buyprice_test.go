package pricing_test

import (
	"testing"

	"ktmobile/internal/domain"
	"ktmobile/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveBuyPrices(t *testing.T) {
	cases := []struct {
		p          int
		good, fair int
	}{
		{900, 855, 765},
		{0, 0, 0},
		{1, 1, 1},
		{10, 10, 9},  // 9.5 rounds up, 8.5 rounds up
		{30, 29, 26}, // 28.5 -> 29, 25.5 -> 26
		{1520, 1444, 1292},
		{1999, 1899, 1699}, // 1899.05, 1699.15
	}
	for _, tc := range cases {
		gp := pricing.DeriveBuyPrices(tc.p)
		assert.Equal(t, tc.p, gp[domain.Excellent], "excellent for %d", tc.p)
		assert.Equal(t, tc.good, gp[domain.Good], "good for %d", tc.p)
		assert.Equal(t, tc.fair, gp[domain.Fair], "fair for %d", tc.p)
	}
}

func TestDeriveBuyPrices_Ordering(t *testing.T) {
	for p := 0; p <= 5000; p++ {
		gp := pricing.DeriveBuyPrices(p)
		if !(gp[domain.Fair] <= gp[domain.Good] && gp[domain.Good] <= gp[domain.Excellent] && gp[domain.Excellent] == p) {
			t.Fatalf("ordering broken for %d: %+v", p, gp)
		}
	}
}

func TestDeriveBuyPriceTable(t *testing.T) {
	got := pricing.DeriveBuyPriceTable(domain.PriceTable{"256GB": 900})
	assert.Equal(t, domain.BuyPriceTable{"256GB": {domain.Excellent: 900, domain.Good: 855, domain.Fair: 765}}, got)
}

func TestOrdered(t *testing.T) {
	assert.True(t, pricing.Ordered(domain.GradePrices{domain.Excellent: 900, domain.Good: 855, domain.Fair: 765}))
	assert.False(t, pricing.Ordered(domain.GradePrices{domain.Excellent: 900, domain.Good: 950, domain.Fair: 765}))
	assert.False(t, pricing.Ordered(domain.GradePrices{domain.Excellent: 900, domain.Good: 800, domain.Fair: 850}))
	assert.True(t, pricing.Ordered(domain.GradePrices{domain.Excellent: 900}))
}
