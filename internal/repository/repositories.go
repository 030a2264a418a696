package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Client       ClientRepository
	Loan         LoanRepository
	Payment      PaymentRepository
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Setting      SettingRepository
	Report       ReportRepository
	Audit        AuditRepository

	db *gorm.DB
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Client:       NewClientRepository(db),
		Loan:         NewLoanRepository(db),
		Payment:      NewPaymentRepository(db),
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Setting:      NewSettingRepository(db),
		Report:       NewReportRepository(db),
		Audit:        NewAuditRepository(db),
		db:           db,
	}
}

// Tx runs fn against transaction-scoped repositories; every write inside fn
// commits or rolls back together. Without a database handle fn runs directly
// against the receiver.
func (r *Repositories) Tx(ctx context.Context, fn func(*Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
