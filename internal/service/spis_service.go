package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"spisovka/internal/config"
	"spisovka/internal/domain"
	"spisovka/internal/domain/models"
	"spisovka/internal/domain/repositories"
	"spisovka/internal/domain/services"
)

// SpisService implements the SpisService interface
type SpisService struct {
	spisRepo repositories.SpisRepository
	logger   *slog.Logger
}

// NewSpisService creates a new spis service
func NewSpisService(spisRepo repositories.SpisRepository, logger *slog.Logger) services.SpisService {
	return &SpisService{
		spisRepo: spisRepo,
		logger:   logger,
	}
}

// CreateSpis creates an empty record owned by userID
func (s *SpisService) CreateSpis(ctx context.Context, userID string, req *models.CreateSpisRequest) (*models.Spis, error) {
	req.Name = strings.TrimSpace(req.Name)
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxRecordNameLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	spis := &models.Spis{
		UserID:    userID,
		Name:      req.Name,
		Documents: []byte("[]"),
		Photos:    []byte("[]"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.spisRepo.Create(ctx, spis); err != nil {
		return nil, err
	}

	s.logger.Info("spis created",
		"id", spis.ID,
		"name", spis.Name,
		"user_id", userID,
	)
	return spis, nil
}

// GetSpis retrieves a record owned by userID
func (s *SpisService) GetSpis(ctx context.Context, userID, spisID string) (*models.Spis, error) {
	return s.spisRepo.GetByID(ctx, spisID, userID)
}

// SetLocked toggles the read-only flag
func (s *SpisService) SetLocked(ctx context.Context, userID, spisID string, locked bool) (*models.Spis, error) {
	spis, err := s.spisRepo.SetLocked(ctx, spisID, userID, locked)
	if err != nil {
		return nil, err
	}

	s.logger.Info("spis lock changed",
		"id", spisID,
		"locked", locked,
		"user_id", userID,
	)
	return spis, nil
}
