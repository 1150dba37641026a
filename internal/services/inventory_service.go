package services

import (
	"context"
	"fmt"

	"ktmobile/internal/catalog"
	"ktmobile/internal/domain"
)

// LowStockThreshold is the count below which a variant shows LOW_STOCK.
const LowStockThreshold = 5

type InventoryService struct {
	Catalog *CatalogService
}

func NewInventoryService(c *CatalogService) *InventoryService {
	return &InventoryService{Catalog: c}
}

// CheckAvailability converts the count of one storage+grade to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(ctx context.Context, id, storage string, g domain.Grade) (domain.Availability, error) {
	rec, err := s.Catalog.Get(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}
	if !rec.HasStorage(storage) || !g.Valid() {
		return domain.Availability{}, fmt.Errorf("%w: %s %s", domain.ErrInvalidVariant, storage, g)
	}
	qty := rec.Quantity(storage, g)

	status := "OUT_OF_STOCK"
	switch {
	case qty >= LowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}

// StockIn adds n units (n > 0) to one variant and returns the new count.
func (s *InventoryService) StockIn(ctx context.Context, id, storage string, g domain.Grade, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: stock-in quantity must be positive", domain.ErrInvalidRecord)
	}
	return s.adjust(ctx, ReasonStockIn, id, storage, g, func(cur int) int { return cur + n })
}

// SetQuantity overwrites the count of one variant (n >= 0).
func (s *InventoryService) SetQuantity(ctx context.Context, id, storage string, g domain.Grade, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidRecord)
	}
	return s.adjust(ctx, ReasonStockSet, id, storage, g, func(int) int { return n })
}

func (s *InventoryService) adjust(ctx context.Context, reason, id, storage string, g domain.Grade, f func(int) int) (int, error) {
	storage = catalog.NormalizeStorage(storage)
	var qty int
	err := s.Catalog.Update(ctx, reason, func(records []domain.PhoneRecord) ([]domain.PhoneRecord, []string, error) {
		i := catalog.FindByID(records, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		rec := records[i].Clone()
		if !rec.HasStorage(storage) || !g.Valid() {
			return nil, nil, fmt.Errorf("%w: %s %s", domain.ErrInvalidVariant, storage, g)
		}
		if rec.Quantities == nil {
			rec.Quantities = domain.QuantityTable{}
		}
		row := rec.Quantities[storage]
		if row == nil {
			row = domain.GradeCounts{}
			rec.Quantities[storage] = row
		}
		row[g] = f(row[g])
		qty = row[g]
		rec.UpdatedAt = s.Catalog.now()
		records[i] = rec
		return records, []string{id}, nil
	})
	return qty, err
}
