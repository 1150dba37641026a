package services

import (
	"context"
	"fmt"

	"ktmobile/internal/catalog"
	"ktmobile/internal/domain"
	"ktmobile/internal/events"
	"ktmobile/internal/repos"
	"ktmobile/internal/validate"

	"go.uber.org/zap"
)

// NotifyService records "tell me when it's back" requests for out-of-stock variants.
type NotifyService struct {
	Catalog *CatalogService
	Repo    *repos.NotifyRepo
	Log     *zap.Logger
}

func NewNotifyService(c *CatalogService, r *repos.NotifyRepo, lg *zap.Logger) *NotifyService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &NotifyService{Catalog: c, Repo: r, Log: lg}
}

// NotifyInput is the shopper's notify-me form.
type NotifyInput struct {
	PhoneID   string `json:"phoneId" form:"phoneId" validate:"required,max=96"`
	Storage   string `json:"storage" form:"storage" validate:"required,max=20"`
	Condition string `json:"condition" form:"condition" validate:"required,oneof=excellent good fair"`
	Email     string `json:"email" form:"email" validate:"required,email,max=80"`
}

// Request stores a notify-me request. The variant must exist on a displayed phone.
func (s *NotifyService) Request(ctx context.Context, in NotifyInput) (domain.NotifyRequest, bool, error) {
	if err := validate.Struct(in); err != nil {
		return domain.NotifyRequest{}, false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	rec, err := s.Catalog.Get(ctx, in.PhoneID)
	if err != nil {
		return domain.NotifyRequest{}, false, err
	}
	if !rec.Display {
		return domain.NotifyRequest{}, false, domain.ErrNotFound
	}
	storage := catalog.NormalizeStorage(in.Storage)
	if !rec.HasStorage(storage) {
		return domain.NotifyRequest{}, false, fmt.Errorf("%w: %s has no %s", domain.ErrInvalidVariant, rec.Model, storage)
	}
	req, created, err := s.Repo.Add(rec.ID, storage, in.Condition, in.Email)
	if err != nil {
		return domain.NotifyRequest{}, false, err
	}
	if created {
		s.Log.Info("notify.request", zap.String("phone_id", rec.ID), zap.String("storage", storage), zap.String("condition", in.Condition))
	}
	return req, created, nil
}

func (s *NotifyService) List(ctx context.Context) ([]domain.NotifyRequest, error) {
	return s.Repo.List()
}

// OnCatalogChanged drops requests for phones that were deleted.
func (s *NotifyService) OnCatalogChanged(ev events.Event) {
	if ev.Reason != ReasonDelete {
		return
	}
	for _, id := range ev.IDs {
		if err := s.Repo.DeleteForPhone(id); err != nil {
			s.Log.Warn("notify.cleanup", zap.String("phone_id", id), zap.Error(err))
		}
	}
}
