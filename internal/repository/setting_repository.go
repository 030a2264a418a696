package repository

import (
	"context"
	"errors"

	"github.com/prestadero/prestamos-api/internal/models"
	"gorm.io/gorm"
)

// SettingRepository defines the interface for the business profile row
type SettingRepository interface {
	Get(ctx context.Context) (*models.Setting, error)
	Update(ctx context.Context, setting *models.Setting) error
	EnsureDefault(ctx context.Context) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting, "id = ?", 1).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Update(ctx context.Context, setting *models.Setting) error {
	setting.ID = 1
	return r.db.WithContext(ctx).Save(setting).Error
}

// EnsureDefault seeds the singleton profile row when missing
func (r *settingRepository) EnsureDefault(ctx context.Context) error {
	err := r.db.WithContext(ctx).First(&models.Setting{}, "id = ?", 1).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(models.DefaultSetting()).Error
}
