package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestadero/prestamos-api/internal/models"
)

func newTestPaymentService(store *memStore) (*PaymentService, *fakeAuditRepo) {
	audit := &fakeAuditRepo{}
	return NewPaymentService(store.repos(), NewLoanLocks(), NewAuditService(audit)), audit
}

func seedLoan(store *memStore, totalDebt float64) *models.Loan {
	loan := &models.Loan{
		ID:              "loan-1",
		ClientID:        "client-1",
		ClientName:      "María López",
		Principal:       1000,
		Currency:        models.CurrencyCordoba,
		InterestRate:    5,
		OriginationDate: "2024-01-01",
		TermLength:      3,
		TermUnit:        models.TermUnitMonths,
		TotalDebt:       totalDebt,
		AmountDue:       totalDebt,
		Outstanding:     true,
		DueDate:         "2024-04-01",
	}
	store.loans[loan.ID] = loan
	return loan
}

func TestRecordPaymentReducesBalance(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, _ := newTestPaymentService(store)

	result, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 500, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 500.0, result.Payment.Amount)
	assert.Equal(t, 650.0, result.Loan.AmountDue)
	assert.Equal(t, 500.0, result.Loan.AmountPaid)
	assert.True(t, result.Loan.Outstanding)
	assert.False(t, result.Overpaid)

	// The stored loan reflects the reconciled balance
	assert.Equal(t, 650.0, store.loans["loan-1"].AmountDue)
}

func TestRecordPaymentSettlesLoan(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, _ := newTestPaymentService(store)

	_, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 650, Date: "2024-01-10"}, "user-1")
	require.NoError(t, err)

	result, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 500, Date: "2024-02-10"}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Loan.AmountDue)
	assert.False(t, result.Loan.Outstanding)
	assert.Equal(t, models.LoanStateSettled, result.Loan.State())
}

func TestRecordPaymentOverpayIsAdvisory(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, _ := newTestPaymentService(store)

	result, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 2000, Date: "2024-01-10"}, "user-1")
	require.NoError(t, err)

	// The payment goes through; the balance clamps at zero
	assert.True(t, result.Overpaid)
	assert.Equal(t, 0.0, result.Loan.AmountDue)
	assert.Equal(t, 2000.0, result.Loan.AmountPaid)
	assert.False(t, result.Loan.Outstanding)
}

func TestEditPaymentReconcilesAsIfAlways(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, _ := newTestPaymentService(store)

	recorded, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 500, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 650.0, recorded.Loan.AmountDue)

	edited, err := svc.Edit(context.Background(), recorded.Payment.ID, &PaymentInput{Amount: 300}, "user-1")
	require.NoError(t, err)

	// The balance reflects the corrected amount, not a delta on top of the old one
	assert.Equal(t, 850.0, edited.Loan.AmountDue)
	assert.Equal(t, 300.0, edited.Loan.AmountPaid)
}

func TestEditPaymentEquivalentToDeleteAndRecord(t *testing.T) {
	ctx := context.Background()

	// Path A: record 500, then correct it to 300
	storeA := newMemStore()
	seedLoan(storeA, 1150)
	svcA, _ := newTestPaymentService(storeA)
	recorded, err := svcA.Record(ctx, "loan-1", &PaymentInput{Amount: 500, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)
	_, err = svcA.Edit(ctx, recorded.Payment.ID, &PaymentInput{Amount: 300, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)

	// Path B: record 500, delete it, record 300
	storeB := newMemStore()
	seedLoan(storeB, 1150)
	svcB, _ := newTestPaymentService(storeB)
	recorded, err = svcB.Record(ctx, "loan-1", &PaymentInput{Amount: 500, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)
	_, err = svcB.Delete(ctx, recorded.Payment.ID, "user-1")
	require.NoError(t, err)
	_, err = svcB.Record(ctx, "loan-1", &PaymentInput{Amount: 300, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)

	loanA := storeA.loans["loan-1"]
	loanB := storeB.loans["loan-1"]
	assert.Equal(t, loanB.AmountPaid, loanA.AmountPaid)
	assert.Equal(t, loanB.AmountDue, loanA.AmountDue)
	assert.Equal(t, loanB.Outstanding, loanA.Outstanding)
	assert.Equal(t, 850.0, loanA.AmountDue)
}

func TestEditPaymentReopensSettledLoan(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, _ := newTestPaymentService(store)

	recorded, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 1150, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)
	assert.False(t, recorded.Loan.Outstanding)

	edited, err := svc.Edit(context.Background(), recorded.Payment.ID, &PaymentInput{Amount: 1000}, "user-1")
	require.NoError(t, err)

	assert.True(t, edited.Loan.Outstanding)
	assert.Equal(t, 150.0, edited.Loan.AmountDue)
}

func TestDeletePaymentRestoresBalance(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, _ := newTestPaymentService(store)

	recorded, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 1150, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)
	assert.False(t, recorded.Loan.Outstanding)

	loan, err := svc.Delete(context.Background(), recorded.Payment.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1150.0, loan.AmountDue)
	assert.Equal(t, 0.0, loan.AmountPaid)
	assert.True(t, loan.Outstanding)

	payments, err := svc.ByLoan(context.Background(), "loan-1")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPaymentMutationsWriteAuditTrail(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, audit := newTestPaymentService(store)

	recorded, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 500, Date: "2024-01-15"}, "user-1")
	require.NoError(t, err)
	_, err = svc.Edit(context.Background(), recorded.Payment.ID, &PaymentInput{Amount: 300}, "user-1")
	require.NoError(t, err)
	_, err = svc.Delete(context.Background(), recorded.Payment.ID, "user-1")
	require.NoError(t, err)

	require.Len(t, audit.entries, 3)
	actions := []string{audit.entries[0].Action, audit.entries[1].Action, audit.entries[2].Action}
	assert.Equal(t, []string{"CREATE", "UPDATE", "DELETE"}, actions)
	for _, entry := range audit.entries {
		assert.Equal(t, "user-1", entry.UserID)
		assert.Equal(t, "Payment", entry.Entity)
	}
}

func TestReconciliationIsOrderIndependent(t *testing.T) {
	amounts := []float64{200, 350.25, 99.75}

	run := func(order []float64) *models.Loan {
		store := newMemStore()
		seedLoan(store, 1150)
		svc, _ := newTestPaymentService(store)
		for _, amount := range order {
			_, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: amount, Date: "2024-01-15"}, "user-1")
			require.NoError(t, err)
		}
		return store.loans["loan-1"]
	}

	forward := run(amounts)
	reversed := run([]float64{99.75, 350.25, 200})

	assert.Equal(t, forward.AmountDue, reversed.AmountDue)
	assert.Equal(t, forward.AmountPaid, reversed.AmountPaid)
	assert.Equal(t, 500.0, forward.AmountDue)
}

func TestRecordPaymentUnknownLoan(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestPaymentService(store)

	_, err := svc.Record(context.Background(), "missing", &PaymentInput{Amount: 100, Date: "2024-01-15"}, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditPaymentUnknownPayment(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestPaymentService(store)

	_, err := svc.Edit(context.Background(), "missing", &PaymentInput{Amount: 100}, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentInputValidation(t *testing.T) {
	store := newMemStore()
	seedLoan(store, 1150)
	svc, _ := newTestPaymentService(store)

	_, err := svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 0}, "user-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: -50}, "user-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Record(context.Background(), "loan-1", &PaymentInput{Amount: 100, Date: "15/01/2024"}, "user-1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
