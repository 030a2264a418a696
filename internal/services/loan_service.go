package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prestadero/prestamos-api/internal/metrics"
	"github.com/prestadero/prestamos-api/internal/models"
	"github.com/prestadero/prestamos-api/internal/repository"
	"github.com/prestadero/prestamos-api/internal/statemachine"
	"github.com/prestadero/prestamos-api/pkg/logger"
)

// LoanInput carries the captured terms of a loan. The derived fields
// (total debt, due date, balance) are always recomputed, never accepted
// from the caller.
type LoanInput struct {
	ClientID        string  `json:"client_id" binding:"required"`
	Principal       float64 `json:"principal" binding:"required,gt=0"`
	Currency        string  `json:"currency"`
	InterestRate    float64 `json:"interest_rate" binding:"gte=0"`
	OriginationDate string  `json:"origination_date" binding:"required"`
	TermLength      int     `json:"term_length" binding:"required,gt=0"`
	TermUnit        string  `json:"term_unit" binding:"required"`
}

// LoanQuote is the preview of a loan's derived figures before origination.
type LoanQuote struct {
	TotalDebt        float64 `json:"total_debt"`
	DueDate          string  `json:"due_date"`
	DailyInstallment float64 `json:"daily_installment"`
}

type LoanService struct {
	repos     *repository.Repositories
	financial *FinancialService
	locks     *LoanLocks
	auditSvc  *AuditService
}

func NewLoanService(repos *repository.Repositories, financial *FinancialService, locks *LoanLocks, auditSvc *AuditService) *LoanService {
	return &LoanService{
		repos:     repos,
		financial: financial,
		locks:     locks,
		auditSvc:  auditSvc,
	}
}

// Quote computes the derived figures for the given terms without
// persisting anything.
func (s *LoanService) Quote(ctx context.Context, input *LoanInput) (*LoanQuote, error) {
	fin, err := s.financial.ComputeFinancials(input.Principal, input.InterestRate, input.TermLength, input.TermUnit, input.OriginationDate)
	if err != nil {
		return nil, err
	}
	return &LoanQuote{
		TotalDebt:        fin.TotalDebt,
		DueDate:          fin.DueDate,
		DailyInstallment: s.financial.DailyInstallment(fin.TotalDebt, input.TermLength, input.TermUnit),
	}, nil
}

// Create originates a loan for an existing client.
func (s *LoanService) Create(ctx context.Context, input *LoanInput, actorID string) (*models.Loan, error) {
	client, err := s.repos.Client.FindByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cliente: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	fin, err := s.financial.ComputeFinancials(input.Principal, input.InterestRate, input.TermLength, input.TermUnit, input.OriginationDate)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = models.CurrencyCordoba
	}

	loan := &models.Loan{
		ID:              uuid.NewString(),
		ClientID:        client.ID,
		ClientName:      client.Name,
		Principal:       input.Principal,
		Currency:        currency,
		InterestRate:    input.InterestRate,
		OriginationDate: input.OriginationDate,
		TermLength:      input.TermLength,
		TermUnit:        input.TermUnit,
		TotalDebt:       fin.TotalDebt,
		AmountDue:       fin.AmountDue,
		Outstanding:     true,
		DueDate:         fin.DueDate,
	}

	if err := s.repos.Loan.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	metrics.LoansCreated.Inc()
	logger.Info("loan originated", "loan_id", loan.ID, "client_id", loan.ClientID, "total_debt", loan.TotalDebt)
	s.auditSvc.Log(ctx, actorID, "CREATE", "Loan", loan.ID,
		fmt.Sprintf("Préstamo creado para %s: %s%.2f", loan.ClientName, loan.Currency, loan.TotalDebt), "", "")
	return loan, nil
}

// Get loads a loan with its payment history, newest payment first.
func (s *LoanService) Get(ctx context.Context, id string) (*models.Loan, error) {
	loan, err := s.repos.Loan.FindByIDWithPayments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	return loan, nil
}

// List returns a filtered, paginated page of loans.
func (s *LoanService) List(ctx context.Context, query *repository.ListQuery) ([]models.Loan, int64, error) {
	return s.repos.Loan.List(ctx, query)
}

// ByClient returns all loans for one client, newest origination first.
func (s *LoanService) ByClient(ctx context.Context, clientID string) ([]models.Loan, error) {
	return s.repos.Loan.FindByClient(ctx, clientID)
}

// Update edits the captured terms of a loan, then reconciles its derived
// fields against the payments already recorded. A loan whose new total is
// already covered settles; one whose debt grows past its payments reopens.
func (s *LoanService) Update(ctx context.Context, id string, input *LoanInput, actorID string) (*models.Loan, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	fin, err := s.financial.ComputeFinancials(input.Principal, input.InterestRate, input.TermLength, input.TermUnit, input.OriginationDate)
	if err != nil {
		return nil, err
	}

	var updated *models.Loan
	err = s.repos.Tx(ctx, func(tx *repository.Repositories) error {
		loan, err := tx.Loan.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load loan: %w", err)
		}

		if input.ClientID != "" && input.ClientID != loan.ClientID {
			client, err := tx.Client.FindByID(ctx, input.ClientID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("cliente: %w", ErrNotFound)
				}
				return fmt.Errorf("failed to load client: %w", err)
			}
			loan.ClientID = client.ID
			loan.ClientName = client.Name
		}

		loan.Principal = input.Principal
		if input.Currency != "" {
			loan.Currency = input.Currency
		}
		loan.InterestRate = input.InterestRate
		loan.OriginationDate = input.OriginationDate
		loan.TermLength = input.TermLength
		loan.TermUnit = input.TermUnit
		loan.TotalDebt = fin.TotalDebt
		loan.DueDate = fin.DueDate

		paid, err := tx.Payment.SumByLoan(ctx, loan.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		if err := reconcileBalance(ctx, loan, paid); err != nil {
			return err
		}

		if err := tx.Loan.Update(ctx, loan); err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("loan terms updated", "loan_id", id, "total_debt", updated.TotalDebt, "amount_due", updated.AmountDue)
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Loan", id,
		fmt.Sprintf("Términos actualizados: deuda %.2f, saldo %.2f", updated.TotalDebt, updated.AmountDue), "", "")
	return updated, nil
}

// Delete removes a loan together with its recorded payments.
func (s *LoanService) Delete(ctx context.Context, id string, actorID string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	err := s.repos.Tx(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Loan.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load loan: %w", err)
		}
		if err := tx.Payment.DeleteByLoan(ctx, id); err != nil {
			return fmt.Errorf("failed to delete payments: %w", err)
		}
		if err := tx.Loan.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Loan", id, "Préstamo eliminado con sus abonos", "", "")
	return nil
}

// RecalculateDelays refreshes the delay day counters of every outstanding
// loan. Scheduled as a recurring job.
func (s *LoanService) RecalculateDelays(ctx context.Context) error {
	loans, err := s.repos.Loan.FindOutstanding(ctx)
	if err != nil {
		return fmt.Errorf("failed to load outstanding loans: %w", err)
	}

	now := time.Now()
	updated := 0
	for _, loan := range loans {
		days := loan.OverdueDays(now)
		if days == loan.DelayDays {
			continue
		}
		if err := s.repos.Loan.UpdateDelayDays(ctx, loan.ID, days); err != nil {
			logger.Error("failed to update delay days", "loan_id", loan.ID, "error", err)
			continue
		}
		updated++
	}

	logger.Info("delay days recalculated", "outstanding", len(loans), "updated", updated)
	return nil
}

// reconcileBalance derives the loan's balance fields from the sum of its
// payments and moves the settlement state machine accordingly.
func reconcileBalance(ctx context.Context, loan *models.Loan, paid float64) error {
	loan.AmountPaid = round2(paid)

	due := round2(loan.TotalDebt - paid)
	if due < 0 {
		due = 0
	}
	loan.AmountDue = due

	lfsm := statemachine.NewLoanFSM(loan)
	switch {
	case due <= 0 && loan.Outstanding:
		if err := lfsm.Settle(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		metrics.LoansSettled.Inc()
	case due > 0 && !loan.Outstanding:
		if err := lfsm.Reopen(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
	}
	return nil
}
