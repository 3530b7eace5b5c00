package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// CarouselService manages the home page carousel.
type CarouselService interface {
	Get(ctx context.Context, id int64) (*domain.CarouselItem, error)
	List(ctx context.Context) ([]domain.CarouselItem, error)
	Create(ctx context.Context, actor string, params domain.CarouselParams) (*domain.CarouselItem, error)
	Update(ctx context.Context, actor string, id int64, params domain.CarouselParams) (*domain.CarouselItem, error)
	Delete(ctx context.Context, actor string, id int64) error
}

type carouselService struct {
	carousel store.Carousel
	counters store.Counters
	audit    store.Audit
}

// NewCarouselService creates a new CarouselService instance
func NewCarouselService(s *store.Store) CarouselService {
	return &carouselService{
		carousel: s.Carousel,
		counters: s.Counters,
		audit:    s.Audit,
	}
}

func (s *carouselService) Get(ctx context.Context, id int64) (*domain.CarouselItem, error) {
	return s.carousel.Get(ctx, id)
}

func (s *carouselService) List(ctx context.Context) ([]domain.CarouselItem, error) {
	return s.carousel.List(ctx)
}

func (s *carouselService) Create(ctx context.Context, actor string, params domain.CarouselParams) (*domain.CarouselItem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	id, err := s.counters.Next(ctx, store.NamespaceCarousel)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.CarouselItem{
		ID:        id,
		ImageRef:  params.ImageRef,
		Title:     params.Title,
		Caption:   params.Caption,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.carousel.Put(ctx, item); err != nil {
		return nil, err
	}

	if err := s.record(ctx, actor, fmt.Sprintf("Added carousel item: %s", item.Title)); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *carouselService) Update(ctx context.Context, actor string, id int64, params domain.CarouselParams) (*domain.CarouselItem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	item, err := s.carousel.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Title = params.Title
	item.Caption = params.Caption
	if params.ImageRef != "" {
		item.ImageRef = params.ImageRef
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.carousel.Put(ctx, item); err != nil {
		return nil, err
	}

	if err := s.record(ctx, actor, fmt.Sprintf("Updated carousel item: %s", item.Title)); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *carouselService) Delete(ctx context.Context, actor string, id int64) error {
	item, err := s.carousel.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.carousel.Delete(ctx, id); err != nil {
		return err
	}

	return s.record(ctx, actor, fmt.Sprintf("Deleted carousel item: %s", item.Title))
}

func (s *carouselService) record(ctx context.Context, actor, action string) error {
	if _, err := s.audit.Append(ctx, actor, action); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("actor", actor).Str("action", action).Msg("failed to append audit entry")
		return err
	}
	return nil
}
