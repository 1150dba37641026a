package catalog

import (
	"strings"

	"ktmobile/internal/domain"
)

// Key is the fuzzy identity of a (brand, model) pair: lower-cased with
// whitespace collapsed. Two records with the same Key are the same phone.
// Substring containment is never used, so "iPhone 16" and "iPhone 16 Pro"
// stay distinct.
func Key(brand, model string) string {
	return strings.Join(strings.Fields(strings.ToLower(brand)), " ") + "|" +
		strings.Join(strings.Fields(strings.ToLower(model)), " ")
}

// Find locates the record for brand+model. An exact match wins; otherwise the
// first record whose Key matches is returned. -1 when nothing matches.
func Find(records []domain.PhoneRecord, brand, model string) int {
	for i, r := range records {
		if r.Brand == brand && r.Model == model {
			return i
		}
	}
	want := Key(brand, model)
	for i, r := range records {
		if Key(r.Brand, r.Model) == want {
			return i
		}
	}
	return -1
}

// FindByID returns the index of the record with id, or -1.
func FindByID(records []domain.PhoneRecord, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
