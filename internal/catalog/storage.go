package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ktmobile/internal/domain"
)

var capacityRe = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(GB|TB|MM)\s*$`)

// capacity converts "256GB", "1TB" or "49mm" to a comparable number. Labels
// such as "Standard" return ok=false.
func capacity(key string) (unit int, size float64, ok bool) {
	m := capacityRe.FindStringSubmatch(key)
	if m == nil {
		return 0, 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	switch strings.ToUpper(m[2]) {
	case "TB":
		return 0, n * 1024, true
	case "GB":
		return 0, n, true
	default:
		// case sizes sort after memory sizes
		return 1, n, true
	}
}

// lessStorage orders memory sizes numerically, then case sizes, then any
// other label alphabetically.
func lessStorage(a, b string) bool {
	ua, sa, oka := capacity(a)
	ub, sb, okb := capacity(b)
	switch {
	case oka && okb:
		if ua != ub {
			return ua < ub
		}
		if sa != sb {
			return sa < sb
		}
		return a < b
	case oka:
		return true
	case okb:
		return false
	}
	return a < b
}

// SortStorages sorts keys in display order in place.
func SortStorages(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool { return lessStorage(keys[i], keys[j]) })
}

// StorageUnion returns the sorted union of keys in the given tables.
func StorageUnion(tables ...domain.PriceTable) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, t := range tables {
		for k := range t {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	SortStorages(keys)
	return keys
}

// NormalizeStorage canonicalises a storage label: "256 gb" -> "256GB", "1tb" -> "1TB".
func NormalizeStorage(s string) string {
	s = strings.TrimSpace(s)
	m := capacityRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	unit := strings.ToUpper(m[2])
	if unit == "MM" {
		unit = "mm"
	}
	return m[1] + unit
}
