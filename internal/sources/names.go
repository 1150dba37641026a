package sources

import (
	"regexp"
	"strings"

	"ktmobile/internal/catalog"
)

var (
	brandPrefixRe = regexp.MustCompile(`(?i)^(apple|samsung|google)\s+`)
	storageRe     = regexp.MustCompile(`(?i)\b(\d+)\s*(GB|TB)\b`)
	noiseRe       = regexp.MustCompile(`(?i)\b(5G|Cellular|WiFi|Wi-Fi)\b`)
	parenRe       = regexp.MustCompile(`\([^)]*\)`)
)

// NormalizeModel strips brand prefixes, storage sizes, connectivity tags and
// parenthetical notes, then collapses whitespace.
func NormalizeModel(name string) string {
	s := brandPrefixRe.ReplaceAllString(strings.TrimSpace(name), "")
	s = storageRe.ReplaceAllString(s, " ")
	s = noiseRe.ReplaceAllString(s, " ")
	s = parenRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ParseListing splits "Apple iPhone 17 Pro Max 256GB" into its model and storage.
func ParseListing(title string) (model, storage string, ok bool) {
	m := storageRe.FindStringSubmatch(title)
	if m == nil {
		return "", "", false
	}
	return NormalizeModel(title), catalog.NormalizeStorage(m[1] + m[2]), true
}

// InferBrand guesses the manufacturer from a model name.
func InferBrand(model string) string {
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "galaxy"):
		return "Samsung"
	case strings.HasPrefix(lower, "pixel"):
		return "Google"
	}
	return "Apple"
}
