package catalog_test

import (
	"testing"

	"ktmobile/internal/catalog"
	"ktmobile/internal/domain"
	"ktmobile/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortStorages(t *testing.T) {
	keys := []string{"1TB", "Standard", "49mm", "128GB", "2TB", "64GB", "45mm", "512GB"}
	catalog.SortStorages(keys)
	assert.Equal(t, []string{"64GB", "128GB", "512GB", "1TB", "2TB", "45mm", "49mm", "Standard"}, keys)
}

func TestNormalizeStorage(t *testing.T) {
	assert.Equal(t, "256GB", catalog.NormalizeStorage("256 gb"))
	assert.Equal(t, "1TB", catalog.NormalizeStorage(" 1tb"))
	assert.Equal(t, "49mm", catalog.NormalizeStorage("49MM"))
	assert.Equal(t, "Standard", catalog.NormalizeStorage("Standard"))
}

func TestFind(t *testing.T) {
	recs := []domain.PhoneRecord{
		{ID: "a", Brand: "Apple", Model: "iPhone 16"},
		{ID: "b", Brand: "Apple", Model: "iPhone 16 Pro"},
		{ID: "c", Brand: "Apple", Model: "iphone  16e"},
		{ID: "d", Brand: "Apple", Model: "iPhone 16E"},
	}
	assert.Equal(t, 0, catalog.Find(recs, "Apple", "iPhone 16"))
	assert.Equal(t, 1, catalog.Find(recs, "apple", "IPHONE 16 PRO"))
	assert.Equal(t, 3, catalog.Find(recs, "Apple", "iPhone 16E"), "exact match wins over fuzzy")
	assert.Equal(t, 2, catalog.Find(recs, "Apple", "iPhone 16e"))
	assert.Equal(t, -1, catalog.Find(recs, "Apple", "iPhone 16 Pro Max"))
	assert.Equal(t, -1, catalog.Find(recs, "Apple", "16"))
	assert.Equal(t, -1, catalog.Find(recs, "Samsung", "iPhone 16"))
}

func validRecord() domain.PhoneRecord {
	return domain.PhoneRecord{
		ID: "apple-iphone-16-1", Brand: "Apple", Model: "iPhone 16",
		Storages:       []string{"128GB", "256GB"},
		StoragePrices:  domain.PriceTable{"128GB": 700},
		NewPhonePrices: domain.PriceTable{"256GB": 1100},
		BasePrice:      700,
		BuyPrices:      domain.BuyPriceTable{"128GB": pricing.DeriveBuyPrices(700)},
		Quantities:     domain.QuantityTable{"128GB": {domain.Good: 2}},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, catalog.Validate(validRecord()))

	r := validRecord()
	r.Storages = []string{"128GB"}
	assert.ErrorIs(t, catalog.Validate(r), domain.ErrInvalidRecord)

	r = validRecord()
	r.BasePrice = 1100
	assert.ErrorIs(t, catalog.Validate(r), domain.ErrInvalidRecord)

	r = validRecord()
	r.BuyPrices["128GB"][domain.Fair] = 800
	assert.ErrorIs(t, catalog.Validate(r), domain.ErrInvalidRecord)

	r = validRecord()
	r.BuyPrices["1TB"] = pricing.DeriveBuyPrices(10)
	assert.ErrorIs(t, catalog.Validate(r), domain.ErrInvalidRecord)

	r = validRecord()
	r.BuyOverrides = []string{"1TB"}
	assert.ErrorIs(t, catalog.Validate(r), domain.ErrInvalidRecord)

	r = validRecord()
	r.Quantities["128GB"][domain.Fair] = -1
	assert.ErrorIs(t, catalog.Validate(r), domain.ErrInvalidRecord)
}

func TestValidateAll_Uniqueness(t *testing.T) {
	a := validRecord()
	b := validRecord()
	b.ID = "apple-iphone-16-2"
	b.Model = "IPHONE 16"
	assert.ErrorIs(t, catalog.ValidateAll([]domain.PhoneRecord{a, b}), domain.ErrDuplicate)

	b.Model = "iPhone 16 Plus"
	require.NoError(t, catalog.ValidateAll([]domain.PhoneRecord{a, b}))

	b.ID = a.ID
	assert.ErrorIs(t, catalog.ValidateAll([]domain.PhoneRecord{a, b}), domain.ErrInvalidRecord)
}

func TestStats(t *testing.T) {
	a := validRecord()
	a.Colors = []string{"Black"}
	a.Display = true
	b := domain.PhoneRecord{ID: "x", Brand: "Samsung", Model: "Galaxy S25", StoragePrices: domain.PriceTable{"256GB": 800}}
	c := domain.PhoneRecord{ID: "y", Brand: "Samsung", Model: "Galaxy S24"}

	st := catalog.Stats([]domain.PhoneRecord{a, b, c})
	assert.Equal(t, 3, st.TotalRecords)
	assert.Equal(t, map[string]int{"Apple": 1, "Samsung": 2}, st.ByBrand)
	assert.Equal(t, 2, st.MissingNewPrice)
	assert.Equal(t, 2, st.MissingColors)
	assert.Equal(t, 2, st.WithPrices)
	assert.Equal(t, 1, st.WithoutPrices)
	assert.Equal(t, 1, st.Displayed)
	assert.Equal(t, 2, st.UnitsInStock)
}

func TestMetadata(t *testing.T) {
	img := catalog.DefaultImages{}
	assert.Equal(t, "images/phones/galaxy-s25-ultra.jpg", img.Image("Samsung", "Galaxy S25 Ultra"))
	assert.Equal(t, catalog.PlaceholderImage, img.Image("", "Galaxy S25 Ultra"))

	colors := catalog.KnownColors{catalog.Key("Apple", "iPhone 13"): {"Starlight"}}
	assert.Equal(t, []string{"Starlight"}, colors.Colors("apple", "iphone 13"))
	assert.Equal(t, []string{"Space Black", "Cloud White", "Light Gold", "Sky Blue"}, colors.Colors("Apple", "iPhone Air"))
	assert.Empty(t, colors.Colors("Nokia", "3310"))
	assert.NotNil(t, colors.Colors("Nokia", "3310"))

	assert.Equal(t, "#FF6B35", catalog.ColorHex("Cosmic Orange"))
	assert.Equal(t, "#000000", catalog.ColorHex("Unobtainium"))
}
