package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ktmobile/internal/catalog"
	"ktmobile/internal/domain"
	"ktmobile/internal/events"
	"ktmobile/internal/metrics"
	"ktmobile/internal/repos"

	"go.uber.org/zap"
)

// Update reasons, carried on CatalogChanged events.
const (
	ReasonImport   = "import"
	ReasonAdd      = "phone.add"
	ReasonEdit     = "phone.edit"
	ReasonDelete   = "phone.delete"
	ReasonStockIn  = "stock.in"
	ReasonStockSet = "stock.set"
	ReasonMirror   = "mirror.pull"
)

// Locker serialises catalog writers across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (token string, err error)
	Release(ctx context.Context, key, token string) error
}

// Mutation edits the full record list. It returns the new list and the ids it
// touched; no ids means nothing changed and nothing is written.
type Mutation func(records []domain.PhoneRecord) ([]domain.PhoneRecord, []string, error)

// CatalogService is the only writer of the catalog blob. Every change goes
// through Update, which holds the writer lock for the whole load, edit, save cycle.
type CatalogService struct {
	Repo    *repos.CatalogRepo
	Bus     *events.Bus
	Builder *catalog.Builder
	Locker  Locker
	Metrics *metrics.Metrics
	Log     *zap.Logger
	Now     func() time.Time

	mu sync.Mutex
}

func NewCatalogService(repo *repos.CatalogRepo, bus *events.Bus, lg *zap.Logger) *CatalogService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &CatalogService{Repo: repo, Bus: bus, Builder: catalog.NewBuilder(), Log: lg, Now: time.Now}
}

func (s *CatalogService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *CatalogService) lockKey() string { return s.Repo.Key + ":lock" }

// Update runs fn under the writer lock, validates the result, saves it and
// then publishes CatalogChanged. Nothing is saved when fn or validation fails.
func (s *CatalogService) Update(ctx context.Context, reason string, fn Mutation) error {
	s.mu.Lock()
	start := time.Now()
	size, ids, err := s.update(ctx, fn)
	held := time.Since(start)
	s.mu.Unlock()

	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	s.Metrics.CatalogWrite(reason, result, held, size)
	if err != nil {
		s.Log.Warn("catalog.update.failed", zap.String("reason", reason), zap.Error(err))
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	s.Log.Info("catalog.update", zap.String("reason", reason), zap.Strings("ids", ids), zap.Int("records", size))
	s.Bus.Publish(events.Event{Kind: events.CatalogChanged, Reason: reason, IDs: ids, At: s.now()})
	return nil
}

func (s *CatalogService) update(ctx context.Context, fn Mutation) (int, []string, error) {
	if s.Locker != nil {
		token, err := s.Locker.Lock(ctx, s.lockKey())
		if err != nil {
			return 0, nil, fmt.Errorf("acquire catalog lock: %w", err)
		}
		defer func() {
			if err := s.Locker.Release(context.WithoutCancel(ctx), s.lockKey(), token); err != nil {
				s.Log.Warn("catalog.lock.release", zap.Error(err))
			}
		}()
	}
	records, err := s.Repo.LoadAll(ctx)
	if err != nil {
		return 0, nil, err
	}
	records, ids, err := fn(records)
	if err != nil {
		return 0, nil, err
	}
	if len(ids) == 0 {
		return len(records), nil, nil
	}
	if err := catalog.ValidateAll(records); err != nil {
		return 0, nil, err
	}
	if err := s.Repo.SaveAll(ctx, records); err != nil {
		return 0, nil, err
	}
	return len(records), ids, nil
}

// List returns every record, hidden ones included.
func (s *CatalogService) List(ctx context.Context) ([]domain.PhoneRecord, error) {
	return s.Repo.LoadAll(ctx)
}

// Displayed returns the records shown on the storefront, sorted by brand then model.
func (s *CatalogService) Displayed(ctx context.Context) ([]domain.PhoneRecord, error) {
	all, err := s.Repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PhoneRecord, 0, len(all))
	for _, r := range all {
		if r.Display {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.PhoneRecord, error) {
	all, err := s.Repo.LoadAll(ctx)
	if err != nil {
		return domain.PhoneRecord{}, err
	}
	i := catalog.FindByID(all, id)
	if i < 0 {
		return domain.PhoneRecord{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return all[i], nil
}

// Search matches q case-insensitively against brand and model.
func (s *CatalogService) Search(ctx context.Context, q string) ([]domain.PhoneRecord, error) {
	all, err := s.Repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := []domain.PhoneRecord{}
	for _, r := range all {
		if q == "" || strings.Contains(strings.ToLower(r.Model), q) || strings.Contains(strings.ToLower(r.Brand), q) {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *CatalogService) ByBrand(ctx context.Context, brand string) ([]domain.PhoneRecord, error) {
	all, err := s.Repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.PhoneRecord{}
	for _, r := range all {
		if strings.EqualFold(r.Brand, brand) {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *CatalogService) Stats(ctx context.Context) (domain.Statistics, error) {
	all, err := s.Repo.LoadAll(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	return catalog.Stats(all), nil
}

// PhoneInput is an admin "add phone" form.
type PhoneInput struct {
	Brand          string               `json:"brand" form:"brand" validate:"required,max=40"`
	Model          string               `json:"model" form:"model" validate:"required,max=80"`
	StoragePrices  domain.PriceTable    `json:"storagePrices"`
	NewPhonePrices domain.PriceTable    `json:"newPhonePrices"`
	BuyPrices      domain.BuyPriceTable `json:"buyPrices"`
	Colors         []string             `json:"colors"`
	Image          *string              `json:"image"`
	Display        *bool                `json:"display"`
	Available      *bool                `json:"available"`
}

// PhoneEdit is a partial update; nil fields are left alone.
type PhoneEdit struct {
	Brand          *string              `json:"brand"`
	Model          *string              `json:"model"`
	StoragePrices  domain.PriceTable    `json:"storagePrices"`
	NewPhonePrices domain.PriceTable    `json:"newPhonePrices"`
	BuyPrices      domain.BuyPriceTable `json:"buyPrices"`
	Colors         []string             `json:"colors"`
	Image          *string              `json:"image"`
	Display        *bool                `json:"display"`
	Available      *bool                `json:"available"`
}

// AddPhone creates a record; a phone with the same brand and model is a conflict.
func (s *CatalogService) AddPhone(ctx context.Context, in PhoneInput) (domain.PhoneRecord, error) {
	var created domain.PhoneRecord
	err := s.Update(ctx, ReasonAdd, func(records []domain.PhoneRecord) ([]domain.PhoneRecord, []string, error) {
		if catalog.Find(records, strings.TrimSpace(in.Brand), strings.TrimSpace(in.Model)) >= 0 {
			return nil, nil, fmt.Errorf("%w: %s %s", domain.ErrDuplicate, in.Brand, in.Model)
		}
		records, i, _, err := s.Builder.Apply(records, catalog.Input{
			Brand:  in.Brand,
			Model:  in.Model,
			Used:   normalizeTable(in.StoragePrices),
			New:    normalizeTable(in.NewPhonePrices),
			Image:  in.Image,
			Colors: in.Colors,
		})
		if err != nil {
			return nil, nil, err
		}
		rec := &records[i]
		applyBuyOverrides(rec, in.BuyPrices)
		if in.Display != nil {
			rec.Display = *in.Display
		}
		if in.Available != nil {
			rec.Available = *in.Available
		}
		created = *rec
		return records, []string{rec.ID}, nil
	})
	return created, err
}

// EditPhone applies an admin edit. Price table changes recompute storages,
// basePrice and derived buy prices; explicit buy prices override per storage.
func (s *CatalogService) EditPhone(ctx context.Context, id string, e PhoneEdit) (domain.PhoneRecord, error) {
	var out domain.PhoneRecord
	err := s.Update(ctx, ReasonEdit, func(records []domain.PhoneRecord) ([]domain.PhoneRecord, []string, error) {
		i := catalog.FindByID(records, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		rec := records[i].Clone()
		if e.Brand != nil {
			rec.Brand = strings.TrimSpace(*e.Brand)
		}
		if e.Model != nil {
			rec.Model = strings.TrimSpace(*e.Model)
		}
		if e.Brand != nil || e.Model != nil {
			for j, other := range records {
				if j != i && catalog.Key(other.Brand, other.Model) == catalog.Key(rec.Brand, rec.Model) {
					return nil, nil, fmt.Errorf("%w: %s %s", domain.ErrDuplicate, rec.Brand, rec.Model)
				}
			}
		}
		if e.StoragePrices != nil {
			rec.StoragePrices = normalizeTable(e.StoragePrices)
		}
		if e.NewPhonePrices != nil {
			rec.NewPhonePrices = normalizeTable(e.NewPhonePrices)
		}
		if len(rec.StoragePrices) == 0 && len(rec.NewPhonePrices) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrNoPrices, id)
		}
		catalog.Reprice(&rec)
		applyBuyOverrides(&rec, e.BuyPrices)
		if e.Colors != nil {
			rec.Colors = append([]string{}, e.Colors...)
		}
		if e.Image != nil {
			rec.Image = *e.Image
		}
		if e.Display != nil {
			rec.Display = *e.Display
		}
		if e.Available != nil {
			rec.Available = *e.Available
		}
		rec.UpdatedAt = s.now()
		records[i] = rec
		out = rec
		return records, []string{id}, nil
	})
	return out, err
}

func (s *CatalogService) SetDisplay(ctx context.Context, id string, display bool) (domain.PhoneRecord, error) {
	return s.EditPhone(ctx, id, PhoneEdit{Display: &display})
}

func (s *CatalogService) DeletePhone(ctx context.Context, id string) error {
	return s.Update(ctx, ReasonDelete, func(records []domain.PhoneRecord) ([]domain.PhoneRecord, []string, error) {
		i := catalog.FindByID(records, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return append(records[:i], records[i+1:]...), []string{id}, nil
	})
}

// Bootstrap writes records only when the catalog is empty. It reports whether it wrote.
func (s *CatalogService) Bootstrap(ctx context.Context, reason string, records []domain.PhoneRecord) (bool, error) {
	wrote := false
	err := s.Update(ctx, reason, func(current []domain.PhoneRecord) ([]domain.PhoneRecord, []string, error) {
		if len(current) > 0 {
			return current, nil, nil
		}
		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		wrote = len(records) > 0
		return records, ids, nil
	})
	return wrote, err
}

// applyBuyOverrides sets admin buy prices for storages the record sells and
// marks them so later repricing keeps them.
func applyBuyOverrides(rec *domain.PhoneRecord, overrides domain.BuyPriceTable) {
	for storage, gp := range overrides {
		storage = catalog.NormalizeStorage(storage)
		if !rec.HasStorage(storage) {
			continue
		}
		row := rec.BuyPrices[storage]
		if row == nil {
			row = domain.GradePrices{}
			rec.BuyPrices[storage] = row
		}
		for g, v := range gp {
			row[g] = v
		}
		rec.MarkBuyOverride(storage)
	}
}

func normalizeTable(t domain.PriceTable) domain.PriceTable {
	out := make(domain.PriceTable, len(t))
	for k, v := range t {
		out[catalog.NormalizeStorage(k)] = v
	}
	return out
}

func sortRecords(rs []domain.PhoneRecord) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Brand != rs[j].Brand {
			return rs[i].Brand < rs[j].Brand
		}
		return rs[i].Model < rs[j].Model
	})
}

// IsClientError reports whether err is caused by bad input rather than the system.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidVariant) ||
		errors.Is(err, domain.ErrPricingNotConfigured) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrDuplicate) ||
		errors.Is(err, domain.ErrNoPrices) ||
		errors.Is(err, domain.ErrInvalidRecord) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrAmbiguousPrice)
}
