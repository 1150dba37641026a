package services

import (
	"context"
	"errors"

	"ktmobile/internal/domain"
	"ktmobile/internal/metrics"
	"ktmobile/internal/pricing"
)

type QuoteService struct {
	Catalog *CatalogService
	Metrics *metrics.Metrics
}

func NewQuoteService(c *CatalogService, m *metrics.Metrics) *QuoteService {
	return &QuoteService{Catalog: c, Metrics: m}
}

// Quote prices one variant of a displayed phone.
func (s *QuoteService) Quote(ctx context.Context, id, storage string, g domain.Grade, addons domain.AddOns) (domain.Quote, error) {
	rec, err := s.Catalog.Get(ctx, id)
	if err != nil {
		s.Metrics.Quote(metrics.ResultError)
		return domain.Quote{}, err
	}
	if !rec.Display {
		s.Metrics.Quote(metrics.ResultError)
		return domain.Quote{}, domain.ErrNotFound
	}
	q, err := pricing.Quote(rec, storage, g, addons)
	switch {
	case err == nil:
		s.Metrics.Quote(metrics.ResultOK)
	case errors.Is(err, domain.ErrInvalidVariant):
		s.Metrics.Quote(metrics.ResultInvalid)
	case errors.Is(err, domain.ErrPricingNotConfigured):
		s.Metrics.Quote(metrics.ResultNotConfigured)
	default:
		s.Metrics.Quote(metrics.ResultError)
	}
	return q, err
}

// Session starts a product-page selection for a displayed phone.
func (s *QuoteService) Session(ctx context.Context, id string) (*pricing.Session, domain.PhoneRecord, error) {
	rec, err := s.Catalog.Get(ctx, id)
	if err != nil {
		return nil, domain.PhoneRecord{}, err
	}
	if !rec.Display {
		return nil, domain.PhoneRecord{}, domain.ErrNotFound
	}
	return pricing.NewSession(rec), rec, nil
}
