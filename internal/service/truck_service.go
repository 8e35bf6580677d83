package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weighstation/internal/dto"
	"weighstation/internal/infra"
	"weighstation/internal/model"
	"weighstation/internal/repository"
	"weighstation/internal/timefmt"

	"gorm.io/gorm"
)

type TruckService interface {
	Create(ctx context.Context, req dto.TruckRequest) (*dto.TruckResponse, error)
	Update(ctx context.Context, id string, req dto.TruckUpdateRequest) (*dto.TruckResponse, error)
	// GetData proxies the weight service's item lookup for a truck that must
	// exist locally first.
	GetData(ctx context.Context, id, fromParam, toParam string) (*dto.ItemResponse, error)
}

type truckService struct {
	repo      repository.TruckRepository
	providers repository.ProviderRepository
	weight    WeightGateway
}

func NewTruckService(repo repository.TruckRepository, providers repository.ProviderRepository, weight WeightGateway) TruckService {
	return &truckService{repo: repo, providers: providers, weight: weight}
}

func (s *truckService) Create(ctx context.Context, req dto.TruckRequest) (*dto.TruckResponse, error) {
	if _, err := s.providers.FindByID(ctx, req.Provider); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, req.Provider)
		}
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, req.ID); err == nil {
		return nil, fmt.Errorf("%w: truck %s already exists", ErrConflict, req.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t := &model.Truck{ID: req.ID, ProviderID: req.Provider}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return &dto.TruckResponse{ID: t.ID}, nil
}

func (s *truckService) Update(ctx context.Context, id string, req dto.TruckUpdateRequest) (*dto.TruckResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: truck %s", ErrNotFound, id)
		}
		return nil, err
	}

	if _, err := s.providers.FindByID(ctx, req.Provider); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, req.Provider)
		}
		return nil, err
	}

	t.ProviderID = req.Provider
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return &dto.TruckResponse{ID: t.ID}, nil
}

func (s *truckService) GetData(ctx context.Context, id, fromParam, toParam string) (*dto.ItemResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: truck %s", ErrNotFound, id)
		}
		return nil, err
	}

	now := time.Now()
	from := timefmt.Parse(fromParam, timefmt.StartOfMonth(now))
	to := timefmt.Parse(toParam, now)

	item, err := s.weight.GetItem(ctx, id, from, to)
	if err != nil {
		if errors.Is(err, infra.ErrItemNotFound) {
			// Known locally but never weighed — an empty history, not a 404.
			return &dto.ItemResponse{ID: id, Tara: "na", Sessions: []uint{}}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &dto.ItemResponse{ID: item.ID, Tara: item.Tara, Sessions: item.Sessions}, nil
}
