package sources_test

import (
	"testing"

	"ktmobile/internal/sources"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeModel(t *testing.T) {
	cases := map[string]string{
		"Apple iPhone 17 Pro Max 256GB":         "iPhone 17 Pro Max",
		"Samsung Galaxy S25 Ultra 5G 512GB":     "Galaxy S25 Ultra",
		"iPad Pro 11 WiFi 1TB (M4)":             "iPad Pro 11",
		"  iPhone   13  mini ":                  "iPhone 13 mini",
		"Galaxy Tab S10 Cellular 256GB (Dummy)": "Galaxy Tab S10",
	}
	for in, want := range cases {
		assert.Equal(t, want, sources.NormalizeModel(in), in)
	}
}

func TestParseListing(t *testing.T) {
	model, storage, ok := sources.ParseListing("Apple iPhone 17 Pro Max 2TB")
	assert.True(t, ok)
	assert.Equal(t, "iPhone 17 Pro Max", model)
	assert.Equal(t, "2TB", storage)

	_, _, ok = sources.ParseListing("Apple Watch Ultra 2")
	assert.False(t, ok)
}

func TestInferBrand(t *testing.T) {
	assert.Equal(t, "Samsung", sources.InferBrand("Galaxy Z Flip 7"))
	assert.Equal(t, "Google", sources.InferBrand("Pixel 9 Pro"))
	assert.Equal(t, "Apple", sources.InferBrand("iPhone 16"))
}
