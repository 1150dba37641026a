package services

import (
	"context"
	"errors"

	"ktmobile/internal/catalog"
	"ktmobile/internal/domain"
	"ktmobile/internal/metrics"
	"ktmobile/internal/pricing"
	"ktmobile/internal/sources"

	"go.uber.org/zap"
)

// Report summarises one import run.
type Report struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Total   int      `json:"total"`
	Sources []string `json:"sources"`
}

type ImportService struct {
	Catalog *CatalogService
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewImportService(c *CatalogService, m *metrics.Metrics, lg *zap.Logger) *ImportService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &ImportService{Catalog: c, Metrics: m, Log: lg}
}

// Run merges every model across the sheets (highest offer per storage) and
// creates or refreshes its record, all in one catalog write. Spellings of a
// model that match the same catalog key are merged together.
func (s *ImportService) Run(ctx context.Context, sheets []sources.Sheet) (Report, error) {
	var rep Report
	for _, sh := range sheets {
		rep.Sources = append(rep.Sources, sh.Name)
	}
	err := s.Catalog.Update(ctx, ReasonImport, func(records []domain.PhoneRecord) ([]domain.PhoneRecord, []string, error) {
		rep = Report{Sources: rep.Sources}
		var ids []string
		for _, g := range sources.Groups(sheets) {
			used := pricing.Merge(sources.UsedSources(sheets, g.Spellings...)...)
			fresh := pricing.Merge(sources.NewSources(sheets, g.Spellings...)...)
			var (
				i   int
				out catalog.Outcome
				err error
			)
			records, i, out, err = s.Catalog.Builder.Apply(records, catalog.Input{
				Brand: g.Brand,
				Model: g.Model,
				Used:  used,
				New:   fresh,
			})
			if errors.Is(err, domain.ErrNoPrices) {
				rep.Skipped++
				s.Log.Debug("import.skip", zap.String("model", g.Model))
				continue
			}
			if err != nil {
				return nil, nil, err
			}
			ids = append(ids, records[i].ID)
			switch out {
			case catalog.Added:
				rep.Added++
			case catalog.Updated:
				rep.Updated++
			}
		}
		rep.Total = len(records)
		return records, ids, nil
	})
	if err != nil {
		return Report{}, err
	}
	s.Metrics.ImportRecord("added", rep.Added)
	s.Metrics.ImportRecord("updated", rep.Updated)
	s.Metrics.ImportRecord("skipped", rep.Skipped)
	s.Log.Info("import.done",
		zap.Strings("sources", rep.Sources),
		zap.Int("added", rep.Added),
		zap.Int("updated", rep.Updated),
		zap.Int("skipped", rep.Skipped),
		zap.Int("total", rep.Total),
	)
	return rep, nil
}

// SeedIfEmpty imports the bundled competitor sheets into an empty catalog.
func (s *ImportService) SeedIfEmpty(ctx context.Context) (Report, bool, error) {
	current, err := s.Catalog.List(ctx)
	if err != nil {
		return Report{}, false, err
	}
	if len(current) > 0 {
		return Report{Total: len(current)}, false, nil
	}
	sheets, err := sources.Seed()
	if err != nil {
		return Report{}, false, err
	}
	rep, err := s.Run(ctx, sheets)
	return rep, err == nil, err
}
