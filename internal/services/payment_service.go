package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/prestadero/prestamos-api/internal/metrics"
	"github.com/prestadero/prestamos-api/internal/models"
	"github.com/prestadero/prestamos-api/internal/repository"
	"github.com/prestadero/prestamos-api/pkg/logger"
)

// PaymentInput carries a single payment ("abono") mutation.
type PaymentInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Date   string  `json:"date"`
}

// PaymentResult is the outcome of a payment mutation: the payment as
// stored plus the loan with its reconciled balance. Overpaid flags that
// the loan's recorded payments now exceed its total debt; it is advisory
// and never blocks the mutation.
type PaymentResult struct {
	Payment  *models.Payment
	Loan     *models.Loan
	Overpaid bool
}

type PaymentService struct {
	repos    *repository.Repositories
	locks    *LoanLocks
	auditSvc *AuditService
}

func NewPaymentService(repos *repository.Repositories, locks *LoanLocks, auditSvc *AuditService) *PaymentService {
	return &PaymentService{
		repos:    repos,
		locks:    locks,
		auditSvc: auditSvc,
	}
}

// Record registers a payment against a loan and reconciles the balance.
func (s *PaymentService) Record(ctx context.Context, loanID string, input *PaymentInput, actorID string) (*PaymentResult, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	date := input.Date
	if date == "" {
		date = time.Now().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: fecha inválida %q", ErrInvalidInput, input.Date)
	}

	unlock := s.locks.Lock(loanID)
	defer unlock()

	payment := &models.Payment{
		ID:     uuid.NewString(),
		LoanID: loanID,
		Amount: round2(input.Amount),
		Date:   date,
	}

	var loan *models.Loan
	err := s.repos.Tx(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Loan.FindByID(ctx, loanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load loan: %w", err)
		}
		if err := tx.Payment.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		var err error
		loan, err = adjustLoanBalance(ctx, tx, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues("create").Inc()
	logger.Info("payment recorded", "loan_id", loanID, "payment_id", payment.ID, "amount", payment.Amount, "amount_due", loan.AmountDue)
	s.auditSvc.Log(ctx, actorID, "CREATE", "Payment", payment.ID,
		fmt.Sprintf("Abono de %.2f al préstamo %s", payment.Amount, loanID), "", "")
	return s.result(payment, loan), nil
}

// Edit replaces the amount and date of a recorded payment and reconciles
// the loan as if the payment had always carried the new values.
func (s *PaymentService) Edit(ctx context.Context, paymentID string, input *PaymentInput, actorID string) (*PaymentResult, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payment, err := s.repos.Payment.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	unlock := s.locks.Lock(payment.LoanID)
	defer unlock()

	var loan *models.Loan
	err = s.repos.Tx(ctx, func(tx *repository.Repositories) error {
		payment.Amount = round2(input.Amount)
		if input.Date != "" {
			if _, err := time.Parse(DateLayout, input.Date); err != nil {
				return fmt.Errorf("%w: fecha inválida %q", ErrInvalidInput, input.Date)
			}
			payment.Date = input.Date
		}
		if err := tx.Payment.Update(ctx, payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		var err error
		loan, err = adjustLoanBalance(ctx, tx, payment.LoanID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues("edit").Inc()
	logger.Info("payment edited", "loan_id", payment.LoanID, "payment_id", paymentID, "amount", payment.Amount, "amount_due", loan.AmountDue)
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Payment", paymentID,
		fmt.Sprintf("Abono editado a %.2f (préstamo %s)", payment.Amount, payment.LoanID), "", "")
	return s.result(payment, loan), nil
}

// Delete removes a payment and restores its amount to the loan's balance.
func (s *PaymentService) Delete(ctx context.Context, paymentID string, actorID string) (*models.Loan, error) {
	payment, err := s.repos.Payment.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	unlock := s.locks.Lock(payment.LoanID)
	defer unlock()

	var loan *models.Loan
	err = s.repos.Tx(ctx, func(tx *repository.Repositories) error {
		if err := tx.Payment.Delete(ctx, paymentID); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}
		var err error
		loan, err = adjustLoanBalance(ctx, tx, payment.LoanID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues("delete").Inc()
	logger.Info("payment deleted", "loan_id", payment.LoanID, "payment_id", paymentID, "amount_due", loan.AmountDue)
	s.auditSvc.Log(ctx, actorID, "DELETE", "Payment", paymentID,
		fmt.Sprintf("Abono de %.2f eliminado del préstamo %s", payment.Amount, payment.LoanID), "", "")
	return loan, nil
}

// Get loads one payment.
func (s *PaymentService) Get(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := s.repos.Payment.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return payment, nil
}

// ByLoan lists a loan's payments, newest first.
func (s *PaymentService) ByLoan(ctx context.Context, loanID string) ([]models.Payment, error) {
	return s.repos.Payment.FindByLoan(ctx, loanID)
}

func (s *PaymentService) result(payment *models.Payment, loan *models.Loan) *PaymentResult {
	return &PaymentResult{
		Payment:  payment,
		Loan:     loan,
		Overpaid: loan.AmountPaid > loan.TotalDebt,
	}
}

// adjustLoanBalance recomputes a loan's balance from the full sum of its
// payments. Deriving from the sum, rather than applying deltas, makes the
// outcome independent of the order payments were recorded, edited or
// deleted in. Must run inside the caller's transaction while holding the
// loan's lock.
func adjustLoanBalance(ctx context.Context, tx *repository.Repositories, loanID string) (*models.Loan, error) {
	timer := prometheus.NewTimer(metrics.ReconcileDuration)
	defer timer.ObserveDuration()

	loan, err := tx.Loan.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}

	paid, err := tx.Payment.SumByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	if err := reconcileBalance(ctx, loan, paid); err != nil {
		return nil, err
	}

	if err := tx.Loan.UpdateBalances(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to persist loan balance: %w", err)
	}
	return loan, nil
}
