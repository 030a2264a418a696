package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/prestadero/prestamos-api/internal/models"
	"github.com/prestadero/prestamos-api/internal/repository"
)

// SettingInput carries the editable business profile fields.
type SettingInput struct {
	CompanyName string `json:"company_name" binding:"required"`
	OwnerName   string `json:"owner_name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Motto       string `json:"motto"`
}

// SettingService manages the single business profile row printed on
// receipts and report headers.
type SettingService struct {
	repo     repository.SettingRepository
	auditSvc *AuditService
}

func NewSettingService(repo repository.SettingRepository, auditSvc *AuditService) *SettingService {
	return &SettingService{repo: repo, auditSvc: auditSvc}
}

// Get returns the business profile, seeding the default row if missing.
func (s *SettingService) Get(ctx context.Context) (*models.Setting, error) {
	if err := s.repo.EnsureDefault(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}
	return s.repo.Get(ctx)
}

// Update replaces the business profile.
func (s *SettingService) Update(ctx context.Context, input *SettingInput, actorID string) (*models.Setting, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre del negocio es requerido", ErrInvalidInput)
	}

	setting := &models.Setting{
		CompanyName: name,
		OwnerName:   strings.TrimSpace(input.OwnerName),
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		Motto:       strings.TrimSpace(input.Motto),
	}
	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Setting", "1", "Perfil del negocio actualizado", "", "")
	return setting, nil
}
