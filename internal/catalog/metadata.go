package catalog

import (
	"strings"

	"github.com/gosimple/slug"
)

// PlaceholderImage is served when a phone has no picture of its own.
const PlaceholderImage = "images/phones/placeholder.jpg"

type ImageResolver interface {
	Image(brand, model string) string
}

type ColorResolver interface {
	Colors(brand, model string) []string
}

// DefaultImages maps a model to images/phones/<slug>.jpg.
type DefaultImages struct{}

func (DefaultImages) Image(brand, model string) string {
	if strings.TrimSpace(brand) == "" || strings.TrimSpace(model) == "" {
		return PlaceholderImage
	}
	return "images/phones/" + slug.Make(model) + ".jpg"
}

// KnownColors looks up the colour range for models we have data for.
type KnownColors map[string][]string

var knownColors = map[string][]string{
	Key("Apple", "iPhone 17 Pro Max"):  {"Cosmic Orange", "Deep Blue", "Silver"},
	Key("Apple", "iPhone 17 Pro"):      {"Cosmic Orange", "Deep Blue", "Silver"},
	Key("Apple", "iPhone 17"):          {"Black", "White", "Mist Blue", "Sage", "Lavender"},
	Key("Apple", "iPhone Air"):         {"Space Black", "Cloud White", "Light Gold", "Sky Blue"},
	Key("Apple", "iPhone 17 Air"):      {"Space Black", "Cloud White", "Light Gold", "Sky Blue"},
	Key("Apple", "iPhone 16E"):         {"Black", "White"},
	Key("Apple", "iPhone 16 Pro Max"):  {"Black Titanium", "White Titanium", "Natural Titanium", "Desert Titanium"},
	Key("Apple", "iPhone 16 Pro"):      {"Black Titanium", "White Titanium", "Natural Titanium", "Desert Titanium"},
	Key("Apple", "iPhone 16"):          {"Black", "White", "Pink", "Teal", "Ultramarine"},
	Key("Apple", "iPhone 15 Pro Max"):  {"Black Titanium", "White Titanium", "Natural Titanium", "Blue Titanium"},
	Key("Apple", "iPhone 15 Pro"):      {"Black Titanium", "White Titanium", "Natural Titanium", "Blue Titanium"},
	Key("Samsung", "Galaxy S25 Ultra"): {"Titanium Black", "Titanium Gray", "Titanium Silverblue", "Titanium Whitesilver"},
	Key("Samsung", "Galaxy S25 Edge"):  {"Titanium Silver", "Titanium Jetblack", "Titanium Icyblue"},
	Key("Samsung", "Galaxy S25"):       {"Navy", "Icy Blue", "Mint", "Silver Shadow"},
	Key("Samsung", "Galaxy Z Fold 7"):  {"Blue Shadow", "Silver Shadow", "Jetblack"},
	Key("Samsung", "Galaxy Z Flip 7"):  {"Blue Shadow", "Coral Red", "Jetblack"},
}

// Colors returns the override set when present, then the built-in table, else an empty list.
func (k KnownColors) Colors(brand, model string) []string {
	key := Key(brand, model)
	if c, ok := k[key]; ok {
		return c
	}
	if c, ok := knownColors[key]; ok {
		return c
	}
	return []string{}
}

var colorHex = map[string]string{
	"Black":            "#000000",
	"White":            "#FFFFFF",
	"Silver":           "#C0C0C0",
	"Gold":             "#FFD700",
	"Space Black":      "#1C1C1E",
	"Midnight":         "#2C2C2E",
	"Starlight":        "#F5F5DC",
	"Pink":             "#EC4899",
	"Teal":             "#008080",
	"Ultramarine":      "#4169E1",
	"Lavender":         "#E6E6FA",
	"Mint":             "#98FF98",
	"Navy":             "#000080",
	"Icy Blue":         "#B0E0E6",
	"Black Titanium":   "#1C1C1E",
	"White Titanium":   "#F5F5F0",
	"Natural Titanium": "#D4C4B0",
	"Blue Titanium":    "#2C5282",
	"Desert Titanium":  "#C19A6B",
	"Cosmic Orange":    "#FF6B35",
	"Deep Blue":        "#003D82",
	"Titanium Black":   "#1C1C1C",
	"Titanium Gray":    "#8E8E93",
}

// ColorHex returns the swatch colour for a colour name, black when unknown.
func ColorHex(name string) string {
	if h, ok := colorHex[name]; ok {
		return h
	}
	return "#000000"
}
