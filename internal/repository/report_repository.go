package repository

import (
	"context"

	"gorm.io/gorm"
)

// PaymentReportRow is one line of the payments-by-range report
type PaymentReportRow struct {
	Date       string  `json:"date"`
	ClientName string  `json:"client_name"`
	Principal  float64 `json:"principal"`
	Amount     float64 `json:"amount"`
}

// LoanReportRow is one line of the loans-by-range report
type LoanReportRow struct {
	Date       string  `json:"date"`
	ClientName string  `json:"client_name"`
	Principal  float64 `json:"principal"`
}

// OverdueReportRow is one line of the overdue clients report
type OverdueReportRow struct {
	OriginationDate string  `json:"origination_date"`
	DueDate         string  `json:"due_date"`
	ClientName      string  `json:"client_name"`
	Principal       float64 `json:"principal"`
	AmountDue       float64 `json:"amount_due"`
}

// ReportRepository runs the read-only ledger queries consumed by reporting
// collaborators.
type ReportRepository interface {
	PaymentsByRange(ctx context.Context, from, to string) ([]PaymentReportRow, error)
	LoansByRange(ctx context.Context, from, to string) ([]LoanReportRow, error)
	CashCountByDay(ctx context.Context, day string) ([]PaymentReportRow, error)
	OverdueLoans(ctx context.Context, today string) ([]OverdueReportRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) PaymentsByRange(ctx context.Context, from, to string) ([]PaymentReportRow, error) {
	var rows []PaymentReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.date AS date,
		       l.client_name AS client_name,
		       l.principal AS principal,
		       p.amount AS amount
		FROM payments p
		INNER JOIN loans l ON p.loan_id = l.id
		WHERE p.date BETWEEN ? AND ?
		ORDER BY p.date ASC`, from, to).Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) LoansByRange(ctx context.Context, from, to string) ([]LoanReportRow, error) {
	var rows []LoanReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT l.origination_date AS date,
		       l.client_name AS client_name,
		       l.principal AS principal
		FROM loans l
		WHERE l.origination_date BETWEEN ? AND ?
		ORDER BY l.origination_date ASC`, from, to).Scan(&rows).Error
	return rows, err
}

// CashCountByDay is the daily cash count ("arqueo de caja"): every payment
// collected on one date.
func (r *reportRepository) CashCountByDay(ctx context.Context, day string) ([]PaymentReportRow, error) {
	var rows []PaymentReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.date AS date,
		       l.client_name AS client_name,
		       l.principal AS principal,
		       p.amount AS amount
		FROM payments p
		INNER JOIN loans l ON p.loan_id = l.id
		WHERE p.date = ?
		ORDER BY p.created_at ASC`, day).Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) OverdueLoans(ctx context.Context, today string) ([]OverdueReportRow, error) {
	var rows []OverdueReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT l.origination_date AS origination_date,
		       l.due_date AS due_date,
		       l.client_name AS client_name,
		       l.principal AS principal,
		       l.amount_due AS amount_due
		FROM loans l
		WHERE l.outstanding = ? AND l.due_date < ?
		ORDER BY l.due_date ASC`, true, today).Scan(&rows).Error
	return rows, err
}
