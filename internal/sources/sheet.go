// Package sources reads competitor price sheets. It is the only place where
// "not carried" arrives as a null; everything past Load works with plain tables.
package sources

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"sort"

	"ktmobile/internal/catalog"
	"ktmobile/internal/domain"
	"ktmobile/internal/pricing"

	"gopkg.in/yaml.v3"
)

//go:embed sheets/*.yaml
var seedFS embed.FS

// Offers maps model -> storage -> price, nil meaning not carried.
type Offers map[string]map[string]*int

// Listings maps a full product title ("Apple iPhone 17 Pro 256GB") to a price.
type Listings map[string]*int

// Sheet is one competitor's price list.
type Sheet struct {
	Name     string `yaml:"name"`
	Used     Offers `yaml:"used"`
	New      Offers `yaml:"new"`
	Listings struct {
		Used Listings `yaml:"used"`
		New  Listings `yaml:"new"`
	} `yaml:"listings"`
}

// Decode parses a YAML sheet and folds listings into the model tables.
// A zero or negative price is rejected: "not carried" must be written as null.
func Decode(r io.Reader) (Sheet, error) {
	var s Sheet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Sheet{}, fmt.Errorf("decode sheet: %w", err)
	}
	if s.Name == "" {
		return Sheet{}, fmt.Errorf("decode sheet: name is required")
	}
	used, err := normalize(s.Name, s.Used, s.Listings.Used)
	if err != nil {
		return Sheet{}, err
	}
	fresh, err := normalize(s.Name, s.New, s.Listings.New)
	if err != nil {
		return Sheet{}, err
	}
	s.Used, s.New = used, fresh
	s.Listings.Used, s.Listings.New = nil, nil
	return s, nil
}

func normalize(sheet string, offers Offers, listings Listings) (Offers, error) {
	out := Offers{}
	put := func(model, storage string, v *int) error {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%w: %s %s %s = %d", domain.ErrAmbiguousPrice, sheet, model, storage, *v)
		}
		row, ok := out[model]
		if !ok {
			row = map[string]*int{}
			out[model] = row
		}
		// two spellings of one variant in the same sheet: keep the better offer
		if cur, ok := row[storage]; ok && cur != nil && (v == nil || *cur >= *v) {
			return nil
		}
		row[storage] = v
		return nil
	}
	for model, row := range offers {
		name := NormalizeModel(model)
		for storage, v := range row {
			if err := put(name, catalog.NormalizeStorage(storage), v); err != nil {
				return nil, err
			}
		}
	}
	for title, v := range listings {
		model, storage, ok := ParseListing(title)
		if !ok {
			return nil, fmt.Errorf("%s: listing %q has no storage size", sheet, title)
		}
		if err := put(model, storage, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Load reads a sheet from disk.
func Load(file string) (Sheet, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return Sheet{}, err
	}
	return Decode(bytes.NewReader(b))
}

// Seed returns the sheets bundled with the binary, sorted by name.
func Seed() ([]Sheet, error) {
	entries, err := seedFS.ReadDir("sheets")
	if err != nil {
		return nil, err
	}
	var out []Sheet
	for _, e := range entries {
		b, err := seedFS.ReadFile(path.Join("sheets", e.Name()))
		if err != nil {
			return nil, err
		}
		s, err := Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Models lists every model named in any sheet, sorted.
func Models(sheets []Sheet) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range sheets {
		for _, t := range []Offers{s.Used, s.New} {
			for m := range t {
				if !seen[m] {
					seen[m] = true
					out = append(out, m)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

// Group is one phone as the catalog identifies it, with every spelling of its
// model name found across the sheets.
type Group struct {
	Brand     string
	Model     string
	Spellings []string
}

// Groups folds Models by catalog.Key so spellings that differ only in case
// or spacing ("iPhone 16E", "iPhone 16e") are merged as one phone. Model is
// the first spelling in sorted order.
func Groups(sheets []Sheet) []Group {
	idx := map[string]int{}
	var out []Group
	for _, m := range Models(sheets) {
		brand := InferBrand(m)
		k := catalog.Key(brand, m)
		if i, ok := idx[k]; ok {
			out[i].Spellings = append(out[i].Spellings, m)
			continue
		}
		idx[k] = len(out)
		out = append(out, Group{Brand: brand, Model: m, Spellings: []string{m}})
	}
	return out
}

// UsedSources returns each sheet's used table for the given spellings of one
// model, ready for pricing.Merge.
func UsedSources(sheets []Sheet, models ...string) []pricing.Source {
	return collect(sheets, models, func(s Sheet) Offers { return s.Used })
}

// NewSources is UsedSources for sealed-phone prices.
func NewSources(sheets []Sheet, models ...string) []pricing.Source {
	return collect(sheets, models, func(s Sheet) Offers { return s.New })
}

func collect(sheets []Sheet, models []string, pick func(Sheet) Offers) []pricing.Source {
	var out []pricing.Source
	for _, s := range sheets {
		for _, m := range models {
			row, ok := pick(s)[m]
			if !ok {
				continue
			}
			out = append(out, pricing.Source{Name: s.Name, Prices: pricing.OfferTable(row).Table()})
		}
	}
	return out
}
