package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockbook/internal/apperrors"
	"stockbook/internal/caching"
	"stockbook/internal/models"
	"stockbook/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const materialCacheTTL = 30 * time.Minute

type MaterialService interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Material, error)
}

type materialService struct {
	materialRepo repositories.MaterialRepository
	cacheService caching.CacheService
}

func NewMaterialService(materialRepo repositories.MaterialRepository, cacheService caching.CacheService) MaterialService {
	return &materialService{
		materialRepo: materialRepo,
		cacheService: cacheService,
	}
}

func (s *materialService) Create(ctx context.Context, material *models.Material) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}
	if material.Unit == "" {
		return fmt.Errorf("material unit is required")
	}
	return s.materialRepo.Create(ctx, material)
}

func (s *materialService) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	if cached, err := s.cacheService.GetMaterial(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Int64("material_id", id).Msg("material cache read failed")
	}

	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.MaterialNotFound{MaterialID: id}
		}
		return nil, err
	}

	if err := s.cacheService.SetMaterial(ctx, material, materialCacheTTL); err != nil {
		log.Warn().Err(err).Int64("material_id", id).Msg("material cache write failed")
	}
	return material, nil
}

func (s *materialService) Update(ctx context.Context, material *models.Material) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}
	if material.Unit == "" {
		return fmt.Errorf("material unit is required")
	}
	if err := s.materialRepo.Update(ctx, material); err != nil {
		return err
	}
	s.invalidate(ctx, material.ID)
	return nil
}

func (s *materialService) Delete(ctx context.Context, id int64) error {
	if err := s.materialRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *materialService) List(ctx context.Context, limit, offset int) ([]*models.Material, error) {
	return s.materialRepo.List(ctx, limit, offset)
}

func (s *materialService) invalidate(ctx context.Context, id int64) {
	if err := s.cacheService.DeleteMaterial(ctx, id); err != nil {
		log.Warn().Err(err).Int64("material_id", id).Msg("material cache invalidation failed")
	}
}
