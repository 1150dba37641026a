package pricing

import "ktmobile/internal/domain"

// Source is one competitor's price table for a single model and condition class.
type Source struct {
	Name   string
	Prices domain.PriceTable
}

// OfferTable is a price table as it arrives from a sheet: a nil entry means
// the competitor does not carry that variant.
type OfferTable map[string]*int

// Table drops the "not carried" entries.
func (o OfferTable) Table() domain.PriceTable {
	out := make(domain.PriceTable, len(o))
	for k, v := range o {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

// Merge combines any number of sources into one table holding the highest
// offer per storage key. A key no source defines is absent from the result.
func Merge(sources ...Source) domain.PriceTable {
	out := domain.PriceTable{}
	for _, src := range sources {
		for k, v := range src.Prices {
			if cur, ok := out[k]; !ok || v > cur {
				out[k] = v
			}
		}
	}
	return out
}

// MergeTables is Merge for unnamed tables.
func MergeTables(tables ...domain.PriceTable) domain.PriceTable {
	srcs := make([]Source, 0, len(tables))
	for _, t := range tables {
		srcs = append(srcs, Source{Prices: t})
	}
	return Merge(srcs...)
}

// Min returns the lowest value in t and false when t is empty.
func Min(t domain.PriceTable) (int, bool) {
	first := true
	min := 0
	for _, v := range t {
		if first || v < min {
			min = v
			first = false
		}
	}
	return min, !first
}
