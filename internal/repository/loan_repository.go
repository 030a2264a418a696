package repository

import (
	"context"

	"github.com/prestadero/prestamos-api/internal/models"
	"gorm.io/gorm"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	FindByID(ctx context.Context, id string) (*models.Loan, error)
	FindByIDWithPayments(ctx context.Context, id string) (*models.Loan, error)
	FindByClient(ctx context.Context, clientID string) ([]models.Loan, error)
	FindOutstanding(ctx context.Context) ([]models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	Update(ctx context.Context, loan *models.Loan) error
	UpdateBalances(ctx context.Context, loan *models.Loan) error
	UpdateDelayDays(ctx context.Context, id string, delayDays int) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query *ListQuery) ([]models.Loan, int64, error)
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByIDWithPayments(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC, created_at DESC")
		}).
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByClient(ctx context.Context, clientID string) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("origination_date DESC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) FindOutstanding(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("outstanding = ?", true).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// UpdateBalances persists only the fields the reconciliation engine derives,
// leaving the loan's terms untouched.
func (r *loanRepository) UpdateBalances(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", loan.ID).
		Updates(map[string]interface{}{
			"total_debt":  loan.TotalDebt,
			"amount_due":  loan.AmountDue,
			"amount_paid": loan.AmountPaid,
			"outstanding": loan.Outstanding,
		}).Error
}

func (r *loanRepository) UpdateDelayDays(ctx context.Context, id string, delayDays int) error {
	return r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", id).
		Update("delay_days", delayDays).Error
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Loan{}, "id = ?", id).Error
}

func (r *loanRepository) List(ctx context.Context, query *ListQuery) ([]models.Loan, int64, error) {
	var loans []models.Loan
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Loan{})

	// Search by the denormalized client name or the client id
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("client_name LIKE ? OR client_id LIKE ?", search, search)
	}

	if query.Filters["outstanding"] != "" {
		db = db.Where("outstanding = ?", query.Filters["outstanding"] == "true")
	}

	if query.Filters["currency"] != "" {
		db = db.Where("currency = ?", query.Filters["currency"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("origination_date DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&loans).Error
	return loans, total, err
}
