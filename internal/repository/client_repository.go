package repository

import (
	"context"

	"github.com/prestadero/prestamos-api/internal/models"
	"gorm.io/gorm"
)

// ClientRepository defines the interface for client directory access
type ClientRepository interface {
	FindByID(ctx context.Context, id string) (*models.Client, error)
	FindAll(ctx context.Context) ([]models.Client, error)
	Search(ctx context.Context, term string) ([]models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
	HasLoans(ctx context.Context, id string) (bool, error)
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&clients).Error
	return clients, err
}

func (r *clientRepository) Search(ctx context.Context, term string) ([]models.Client, error) {
	var clients []models.Client
	search := "%" + term + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR identity LIKE ?", search, search).
		Order("name ASC").
		Find(&clients).Error
	return clients, err
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id).Error
}

func (r *clientRepository) HasLoans(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("client_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
