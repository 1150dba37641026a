package catalog

import "ktmobile/internal/domain"

func Stats(records []domain.PhoneRecord) domain.Statistics {
	st := domain.Statistics{ByBrand: map[string]int{}}
	for _, r := range records {
		st.TotalRecords++
		st.ByBrand[r.Brand]++
		if len(r.NewPhonePrices) == 0 {
			st.MissingNewPrice++
		}
		if len(r.Colors) == 0 {
			st.MissingColors++
		}
		if len(r.StoragePrices) > 0 || len(r.NewPhonePrices) > 0 {
			st.WithPrices++
		} else {
			st.WithoutPrices++
		}
		if r.Display {
			st.Displayed++
		}
		st.UnitsInStock += r.TotalUnits()
	}
	return st
}
