package repos

import (
	"context"
	"encoding/json"
	"fmt"

	"ktmobile/internal/domain"
)

// DefaultCatalogKey is the store key holding the whole catalog.
const DefaultCatalogKey = "ktmobile_phones"

// CatalogRepo reads and writes the catalog as one JSON document.
type CatalogRepo struct {
	Store Store
	Key   string
}

func NewCatalogRepo(store Store, key string) *CatalogRepo {
	if key == "" {
		key = DefaultCatalogKey
	}
	return &CatalogRepo{Store: store, Key: key}
}

// LoadAll returns the stored records; an absent key is an empty catalog.
func (r *CatalogRepo) LoadAll(ctx context.Context) ([]domain.PhoneRecord, error) {
	raw, ok, err := r.Store.Get(ctx, r.Key)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []domain.PhoneRecord{}, nil
	}
	return DecodeCatalog(raw)
}

func (r *CatalogRepo) SaveAll(ctx context.Context, records []domain.PhoneRecord) error {
	raw, err := EncodeCatalog(records)
	if err != nil {
		return err
	}
	if err := r.Store.Set(ctx, r.Key, raw); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func EncodeCatalog(records []domain.PhoneRecord) ([]byte, error) {
	if records == nil {
		records = []domain.PhoneRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return raw, nil
}

func DecodeCatalog(raw []byte) ([]domain.PhoneRecord, error) {
	out := []domain.PhoneRecord{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return out, nil
}
