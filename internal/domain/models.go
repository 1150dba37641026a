package domain

import "time"

// Grade is the cosmetic/functional condition of a used unit.
type Grade string

const (
	Excellent Grade = "excellent"
	Good      Grade = "good"
	Fair      Grade = "fair"
)

// Grades lists every grade from most to least desirable.
var Grades = []Grade{Excellent, Good, Fair}

func (g Grade) Valid() bool {
	switch g {
	case Excellent, Good, Fair:
		return true
	}
	return false
}

// PriceTable maps a storage key ("256GB", "1TB", "49mm", "Standard") to a whole-dollar SGD price.
// A storage that is not offered is absent, never zero.
type PriceTable map[string]int

// GradePrices maps a grade to a price for one storage.
type GradePrices map[Grade]int

// BuyPriceTable maps storage -> grade -> price.
type BuyPriceTable map[string]GradePrices

// GradeCounts maps a grade to a unit count for one storage.
type GradeCounts map[Grade]int

// QuantityTable maps storage -> grade -> units in stock.
type QuantityTable map[string]GradeCounts

// PhoneRecord is one catalog entry. BuyOverrides lists the storages whose buy
// prices an admin entered; buy prices for every other storage are derived
// from the used price.
type PhoneRecord struct {
	ID             string        `json:"id"`
	Brand          string        `json:"brand"`
	Model          string        `json:"model"`
	Storages       []string      `json:"storages"`
	StoragePrices  PriceTable    `json:"storagePrices"`
	NewPhonePrices PriceTable    `json:"newPhonePrices"`
	BasePrice      int           `json:"basePrice"`
	BuyPrices      BuyPriceTable `json:"buyPrices"`
	BuyOverrides   []string      `json:"buyPriceOverrides,omitempty"`
	Quantities     QuantityTable `json:"quantities"`
	Colors         []string      `json:"colors"`
	Image          string        `json:"image"`
	Display        bool          `json:"display"`
	Available      bool          `json:"available"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// HasStorage reports whether s is one of the record's sold variants.
func (p PhoneRecord) HasStorage(s string) bool {
	for _, st := range p.Storages {
		if st == s {
			return true
		}
	}
	return false
}

// HasBuyOverride reports whether an admin set the buy prices for storage s.
func (p PhoneRecord) HasBuyOverride(s string) bool {
	for _, o := range p.BuyOverrides {
		if o == s {
			return true
		}
	}
	return false
}

// MarkBuyOverride records that the buy prices for storage s were entered by an admin.
func (p *PhoneRecord) MarkBuyOverride(s string) {
	if !p.HasBuyOverride(s) {
		p.BuyOverrides = append(p.BuyOverrides, s)
	}
}

// Quantity returns the stock for an exact storage+grade, 0 when unknown.
func (p PhoneRecord) Quantity(storage string, g Grade) int {
	if p.Quantities == nil {
		return 0
	}
	return p.Quantities[storage][g]
}

// TotalUnits sums every quantity cell.
func (p PhoneRecord) TotalUnits() int {
	n := 0
	for _, byGrade := range p.Quantities {
		for _, q := range byGrade {
			n += q
		}
	}
	return n
}

// Clone returns a deep copy so callers can mutate without aliasing the stored catalog.
func (p PhoneRecord) Clone() PhoneRecord {
	out := p
	out.Storages = append([]string(nil), p.Storages...)
	out.Colors = append([]string(nil), p.Colors...)
	if p.BuyOverrides != nil {
		out.BuyOverrides = append([]string(nil), p.BuyOverrides...)
	}
	out.StoragePrices = clonePrices(p.StoragePrices)
	out.NewPhonePrices = clonePrices(p.NewPhonePrices)
	if p.BuyPrices != nil {
		out.BuyPrices = make(BuyPriceTable, len(p.BuyPrices))
		for k, v := range p.BuyPrices {
			gp := make(GradePrices, len(v))
			for g, n := range v {
				gp[g] = n
			}
			out.BuyPrices[k] = gp
		}
	}
	if p.Quantities != nil {
		out.Quantities = make(QuantityTable, len(p.Quantities))
		for k, v := range p.Quantities {
			gc := make(GradeCounts, len(v))
			for g, n := range v {
				gc[g] = n
			}
			out.Quantities[k] = gc
		}
	}
	return out
}

func clonePrices(t PriceTable) PriceTable {
	if t == nil {
		return nil
	}
	out := make(PriceTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Warranty is the extended warranty add-on.
type Warranty int

const (
	WarrantyOff Warranty = 0
	Warranty12  Warranty = 12
	Warranty24  Warranty = 24
)

type AddOns struct {
	Warranty       Warranty `json:"warrantyMonths"`
	BatteryUpgrade bool     `json:"batteryUpgrade"`
}

// Quote is what the product page shows for one selection.
type Quote struct {
	PhoneID           string `json:"phoneId"`
	Storage           string `json:"storage"`
	Condition         Grade  `json:"condition"`
	UnitPrice         int    `json:"unitPrice"`
	Surcharge         int    `json:"surcharge"`
	TotalPrice        int    `json:"totalPrice"`
	Installment       int    `json:"installment"`
	Installments      int    `json:"installments"`
	Available         bool   `json:"available"`
	QuantityRemaining int    `json:"quantityRemaining"`
}

// Statistics is the diagnostic summary of the catalog.
type Statistics struct {
	TotalRecords    int            `json:"totalRecords"`
	ByBrand         map[string]int `json:"byBrand"`
	MissingNewPrice int            `json:"missingNewPrice"`
	MissingColors   int            `json:"missingColors"`
	WithPrices      int            `json:"withPrices"`
	WithoutPrices   int            `json:"withoutPrices"`
	Displayed       int            `json:"displayed"`
	UnitsInStock    int            `json:"unitsInStock"`
}

type NotifyRequest struct {
	ID        string `db:"id" json:"id"`
	PhoneID   string `db:"phone_id" json:"phoneId"`
	Storage   string `db:"storage" json:"storage"`
	Condition string `db:"condition" json:"condition"`
	Email     string `db:"email" json:"email"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// Availability is the stock badge for one exact variant.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
