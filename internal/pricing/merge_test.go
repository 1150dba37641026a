package pricing_test

import (
	"testing"

	"ktmobile/internal/domain"
	"ktmobile/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestMerge_TakesHighestOffer(t *testing.T) {
	a := pricing.Source{Name: "whymobile", Prices: domain.PriceTable{"256GB": 900, "512GB": 1000}}
	b := pricing.Source{Name: "redwhite", Prices: domain.PriceTable{"256GB": 1520, "1TB": 1920}}

	got := pricing.Merge(a, b)
	assert.Equal(t, domain.PriceTable{"256GB": 1520, "512GB": 1000, "1TB": 1920}, got)
}

func TestMerge_OrderDoesNotMatter(t *testing.T) {
	a := domain.PriceTable{"128GB": 700, "256GB": 800}
	b := domain.PriceTable{"256GB": 850, "512GB": 990}
	c := domain.PriceTable{"128GB": 720, "1TB": 1200}

	all := pricing.MergeTables(a, b, c)
	assert.Equal(t, all, pricing.MergeTables(pricing.MergeTables(a, b), c))
	assert.Equal(t, all, pricing.MergeTables(c, b, a))
	assert.Equal(t, all, pricing.MergeTables(b, pricing.MergeTables(c, a)))
}

func TestMerge_Idempotent(t *testing.T) {
	a := domain.PriceTable{"64GB": 300, "128GB": 350}
	assert.Equal(t, a, pricing.MergeTables(a, a))
}

func TestMerge_SingleSourceUnmodified(t *testing.T) {
	got := pricing.Merge(pricing.Source{Name: "only", Prices: domain.PriceTable{"2TB": 2250}})
	assert.Equal(t, domain.PriceTable{"2TB": 2250}, got)
}

func TestMerge_NotCarriedIsAbsent(t *testing.T) {
	why := pricing.OfferTable{"256GB": nil, "512GB": intp(640)}
	red := pricing.OfferTable{"256GB": intp(570), "512GB": nil, "1TB": nil}

	got := pricing.Merge(
		pricing.Source{Name: "whymobile", Prices: why.Table()},
		pricing.Source{Name: "redwhite", Prices: red.Table()},
	)
	assert.Equal(t, domain.PriceTable{"256GB": 570, "512GB": 640}, got)
	_, ok := got["1TB"]
	assert.False(t, ok, "a key nobody prices must not appear as zero")
}

func TestMerge_Empty(t *testing.T) {
	got := pricing.Merge()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMin(t *testing.T) {
	m, ok := pricing.Min(domain.PriceTable{"256GB": 1500, "512GB": 1700, "128GB": 1200})
	require.True(t, ok)
	assert.Equal(t, 1200, m)

	_, ok = pricing.Min(nil)
	assert.False(t, ok)
}
