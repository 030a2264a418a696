package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestadero/prestamos-api/internal/models"
)

func newTestLoanService(store *memStore) (*LoanService, *fakeAuditRepo) {
	audit := &fakeAuditRepo{}
	return NewLoanService(store.repos(), NewFinancialService(), NewLoanLocks(), NewAuditService(audit)), audit
}

func seedClient(store *memStore) *models.Client {
	client := &models.Client{
		ID:       "client-1",
		Name:     "María López",
		Identity: "001-120589-0001A",
		Phone:    "8888-1234",
	}
	store.clients[client.ID] = client
	return client
}

func TestCreateLoanDerivesFinancials(t *testing.T) {
	store := newMemStore()
	seedClient(store)
	svc, _ := newTestLoanService(store)

	loan, err := svc.Create(context.Background(), &LoanInput{
		ClientID:        "client-1",
		Principal:       1000,
		InterestRate:    5,
		OriginationDate: "2024-01-01",
		TermLength:      3,
		TermUnit:        models.TermUnitMonths,
	}, "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, "María López", loan.ClientName)
	assert.Equal(t, models.CurrencyCordoba, loan.Currency)
	assert.Equal(t, 1150.0, loan.TotalDebt)
	assert.Equal(t, 1150.0, loan.AmountDue)
	assert.Equal(t, "2024-04-01", loan.DueDate)
	assert.True(t, loan.Outstanding)
}

func TestCreateLoanUnknownClient(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestLoanService(store)

	_, err := svc.Create(context.Background(), &LoanInput{
		ClientID:        "missing",
		Principal:       1000,
		InterestRate:    5,
		OriginationDate: "2024-01-01",
		TermLength:      3,
		TermUnit:        models.TermUnitMonths,
	}, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateLoanRejectsBadTerms(t *testing.T) {
	store := newMemStore()
	seedClient(store)
	svc, _ := newTestLoanService(store)

	_, err := svc.Create(context.Background(), &LoanInput{
		ClientID:        "client-1",
		Principal:       1000,
		InterestRate:    10,
		OriginationDate: "2024-01-01",
		TermLength:      30,
		TermUnit:        models.TermUnitDays,
	}, "user-1")
	assert.ErrorIs(t, err, ErrInvalidTerms)
}

func TestUpdateLoanReconcilesAgainstPayments(t *testing.T) {
	store := newMemStore()
	seedClient(store)
	loan := seedLoan(store, 1150)
	store.payments["pay-1"] = &models.Payment{ID: "pay-1", LoanID: loan.ID, Amount: 600, Date: "2024-01-15"}
	svc, _ := newTestLoanService(store)

	// Shrink the debt below what was already paid: the loan settles
	updated, err := svc.Update(context.Background(), loan.ID, &LoanInput{
		ClientID:        "client-1",
		Principal:       500,
		InterestRate:    5,
		OriginationDate: "2024-01-01",
		TermLength:      1,
		TermUnit:        models.TermUnitMonths,
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 525.0, updated.TotalDebt)
	assert.Equal(t, 0.0, updated.AmountDue)
	assert.Equal(t, 600.0, updated.AmountPaid)
	assert.False(t, updated.Outstanding)
}

func TestUpdateLoanReopensWhenDebtGrows(t *testing.T) {
	store := newMemStore()
	seedClient(store)
	loan := seedLoan(store, 1150)
	loan.Outstanding = false
	loan.AmountDue = 0
	loan.AmountPaid = 1150
	store.payments["pay-1"] = &models.Payment{ID: "pay-1", LoanID: loan.ID, Amount: 1150, Date: "2024-01-15"}
	svc, _ := newTestLoanService(store)

	updated, err := svc.Update(context.Background(), loan.ID, &LoanInput{
		ClientID:        "client-1",
		Principal:       2000,
		InterestRate:    5,
		OriginationDate: "2024-01-01",
		TermLength:      3,
		TermUnit:        models.TermUnitMonths,
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2300.0, updated.TotalDebt)
	assert.Equal(t, 1150.0, updated.AmountDue)
	assert.True(t, updated.Outstanding)
}

func TestDeleteLoanCascadesPayments(t *testing.T) {
	store := newMemStore()
	loan := seedLoan(store, 1150)
	store.payments["pay-1"] = &models.Payment{ID: "pay-1", LoanID: loan.ID, Amount: 100, Date: "2024-01-15"}
	store.payments["pay-2"] = &models.Payment{ID: "pay-2", LoanID: loan.ID, Amount: 200, Date: "2024-01-20"}
	svc, _ := newTestLoanService(store)

	require.NoError(t, svc.Delete(context.Background(), loan.ID, "user-1"))

	assert.Empty(t, store.loans)
	assert.Empty(t, store.payments)
}

func TestDeleteLoanUnknown(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestLoanService(store)

	assert.ErrorIs(t, svc.Delete(context.Background(), "missing", "user-1"), ErrNotFound)
}

func TestLoanMutationsWriteAuditTrail(t *testing.T) {
	store := newMemStore()
	seedClient(store)
	svc, audit := newTestLoanService(store)

	input := &LoanInput{
		ClientID:        "client-1",
		Principal:       1000,
		InterestRate:    5,
		OriginationDate: "2024-01-01",
		TermLength:      3,
		TermUnit:        models.TermUnitMonths,
	}

	loan, err := svc.Create(context.Background(), input, "user-1")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), loan.ID, input, "user-1")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), loan.ID, "user-1"))

	require.Len(t, audit.entries, 3)
	actions := []string{audit.entries[0].Action, audit.entries[1].Action, audit.entries[2].Action}
	assert.Equal(t, []string{"CREATE", "UPDATE", "DELETE"}, actions)
	for _, entry := range audit.entries {
		assert.Equal(t, "user-1", entry.UserID)
		assert.Equal(t, "Loan", entry.Entity)
	}

	// Rejected mutations leave no trail
	_, err = svc.Create(context.Background(), &LoanInput{
		ClientID:        "missing",
		Principal:       1000,
		InterestRate:    5,
		OriginationDate: "2024-01-01",
		TermLength:      3,
		TermUnit:        models.TermUnitMonths,
	}, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, audit.entries, 3)
}

func TestQuote(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestLoanService(store)

	quote, err := svc.Quote(context.Background(), &LoanInput{
		ClientID:        "-",
		Principal:       500,
		InterestRate:    10,
		OriginationDate: "2024-01-01",
		TermLength:      10,
		TermUnit:        models.TermUnitDays,
	})
	require.NoError(t, err)

	assert.Equal(t, 550.0, quote.TotalDebt)
	assert.Equal(t, "2024-01-12", quote.DueDate)
	assert.Equal(t, 55.0, quote.DailyInstallment)
}

func TestRecalculateDelays(t *testing.T) {
	store := newMemStore()
	loan := seedLoan(store, 1150)
	loan.DueDate = "2020-01-01" // long past due
	settled := &models.Loan{
		ID:          "loan-2",
		ClientID:    "client-1",
		ClientName:  "María López",
		TotalDebt:   100,
		Outstanding: false,
		DueDate:     "2020-01-01",
	}
	store.loans[settled.ID] = settled
	svc, _ := newTestLoanService(store)

	require.NoError(t, svc.RecalculateDelays(context.Background()))

	assert.Greater(t, store.loans["loan-1"].DelayDays, 0)
	// Settled loans never accrue delay days
	assert.Equal(t, 0, store.loans["loan-2"].DelayDays)
}
