package service

import (
	"context"
	"errors"
	"fmt"

	"weighstation/internal/dto"
	"weighstation/internal/model"
	"weighstation/internal/repository"

	"gorm.io/gorm"
)

type ProviderService interface {
	Create(ctx context.Context, req dto.ProviderRequest) (*dto.ProviderResponse, error)
	Update(ctx context.Context, id uint, req dto.ProviderRequest) (*dto.ProviderResponse, error)
}

type providerService struct {
	repo repository.ProviderRepository
}

func NewProviderService(repo repository.ProviderRepository) ProviderService {
	return &providerService{repo: repo}
}

func (s *providerService) Create(ctx context.Context, req dto.ProviderRequest) (*dto.ProviderResponse, error) {
	existing, err := s.repo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: provider %q already exists", ErrConflict, req.Name)
	}

	p := &model.Provider{Name: req.Name}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &dto.ProviderResponse{ID: p.ID, Name: p.Name}, nil
}

func (s *providerService) Update(ctx context.Context, id uint, req dto.ProviderRequest) (*dto.ProviderResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, id)
		}
		return nil, err
	}

	if other, err := s.repo.FindByName(ctx, req.Name); err == nil && other.ID != id {
		return nil, fmt.Errorf("%w: provider %q already exists", ErrConflict, req.Name)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p.Name = req.Name
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return &dto.ProviderResponse{ID: p.ID, Name: p.Name}, nil
}
