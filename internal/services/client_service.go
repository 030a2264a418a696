package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prestadero/prestamos-api/internal/models"
	"github.com/prestadero/prestamos-api/internal/repository"
)

// ClientInput carries the editable fields of a directory entry.
type ClientInput struct {
	Name     string `json:"name" binding:"required"`
	Identity string `json:"identity"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type ClientService struct {
	repo     repository.ClientRepository
	auditSvc *AuditService
}

func NewClientService(repo repository.ClientRepository, auditSvc *AuditService) *ClientService {
	return &ClientService{repo: repo, auditSvc: auditSvc}
}

// Create adds a client to the directory.
func (s *ClientService) Create(ctx context.Context, input *ClientInput, actorID string) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es requerido", ErrInvalidInput)
	}

	client := &models.Client{
		ID:       uuid.NewString(),
		Name:     name,
		Identity: strings.TrimSpace(input.Identity),
		Address:  strings.TrimSpace(input.Address),
		Phone:    strings.TrimSpace(input.Phone),
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.auditSvc.Log(ctx, actorID, "CREATE", "Client", client.ID, fmt.Sprintf("Cliente creado: %s", client.Name), "", "")
	return client, nil
}

// Get loads one client.
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return client, nil
}

// List returns the directory, optionally filtered by a search term over
// name and identity number.
func (s *ClientService) List(ctx context.Context, search string) ([]models.Client, error) {
	if term := strings.TrimSpace(search); term != "" {
		return s.repo.Search(ctx, term)
	}
	return s.repo.FindAll(ctx)
}

// Update edits a client's directory fields.
func (s *ClientService) Update(ctx context.Context, id string, input *ClientInput, actorID string) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(input.Name)
	client.Identity = strings.TrimSpace(input.Identity)
	client.Address = strings.TrimSpace(input.Address)
	client.Phone = strings.TrimSpace(input.Phone)

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Client", id, fmt.Sprintf("Cliente actualizado: %s", client.Name), "", "")
	return client, nil
}

// Delete removes a client. Clients with loans on the books, settled or
// not, are kept so the ledger stays attributable.
func (s *ClientService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	hasLoans, err := s.repo.HasLoans(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check client loans: %w", err)
	}
	if hasLoans {
		return ErrClientHasLoans
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DELETE", "Client", id, "Cliente eliminado", "", "")
	return nil
}
