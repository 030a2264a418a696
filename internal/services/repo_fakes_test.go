package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/prestadero/prestamos-api/internal/models"
	"github.com/prestadero/prestamos-api/internal/repository"
)

// In-memory stand-ins for the GORM repositories. The Repositories value is
// built with a nil db handle so Tx runs callbacks directly.

type memStore struct {
	loans    map[string]*models.Loan
	payments map[string]*models.Payment
	clients  map[string]*models.Client
}

func newMemStore() *memStore {
	return &memStore{
		loans:    make(map[string]*models.Loan),
		payments: make(map[string]*models.Payment),
		clients:  make(map[string]*models.Client),
	}
}

func (s *memStore) repos() *repository.Repositories {
	return &repository.Repositories{
		Loan:    &fakeLoanRepo{store: s},
		Payment: &fakePaymentRepo{store: s},
		Client:  &fakeClientRepo{store: s},
	}
}

type fakeLoanRepo struct {
	store *memStore
}

func (r *fakeLoanRepo) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	loan, ok := r.store.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) FindByIDWithPayments(ctx context.Context, id string) (*models.Loan, error) {
	loan, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range r.store.payments {
		if p.LoanID == id {
			loan.Payments = append(loan.Payments, *p)
		}
	}
	sort.Slice(loan.Payments, func(i, j int) bool {
		return loan.Payments[i].Date > loan.Payments[j].Date
	})
	return loan, nil
}

func (r *fakeLoanRepo) FindByClient(ctx context.Context, clientID string) ([]models.Loan, error) {
	var loans []models.Loan
	for _, l := range r.store.loans {
		if l.ClientID == clientID {
			loans = append(loans, *l)
		}
	}
	return loans, nil
}

func (r *fakeLoanRepo) FindOutstanding(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	for _, l := range r.store.loans {
		if l.Outstanding {
			loans = append(loans, *l)
		}
	}
	return loans, nil
}

func (r *fakeLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	copied := *loan
	r.store.loans[loan.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	copied := *loan
	r.store.loans[loan.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) UpdateBalances(ctx context.Context, loan *models.Loan) error {
	stored, ok := r.store.loans[loan.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.TotalDebt = loan.TotalDebt
	stored.AmountDue = loan.AmountDue
	stored.AmountPaid = loan.AmountPaid
	stored.Outstanding = loan.Outstanding
	return nil
}

func (r *fakeLoanRepo) UpdateDelayDays(ctx context.Context, id string, delayDays int) error {
	stored, ok := r.store.loans[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.DelayDays = delayDays
	return nil
}

func (r *fakeLoanRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.loans, id)
	return nil
}

func (r *fakeLoanRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Loan, int64, error) {
	var loans []models.Loan
	for _, l := range r.store.loans {
		loans = append(loans, *l)
	}
	return loans, int64(len(loans)), nil
}

type fakePaymentRepo struct {
	store *memStore
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	payment, ok := r.store.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) FindByLoan(ctx context.Context, loanID string) ([]models.Payment, error) {
	var payments []models.Payment
	for _, p := range r.store.payments {
		if p.LoanID == loanID {
			payments = append(payments, *p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].Date > payments[j].Date
	})
	return payments, nil
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	copied := *payment
	r.store.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	copied := *payment
	r.store.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.payments, id)
	return nil
}

func (r *fakePaymentRepo) DeleteByLoan(ctx context.Context, loanID string) error {
	for id, p := range r.store.payments {
		if p.LoanID == loanID {
			delete(r.store.payments, id)
		}
	}
	return nil
}

func (r *fakePaymentRepo) SumByLoan(ctx context.Context, loanID string) (float64, error) {
	var total float64
	for _, p := range r.store.payments {
		if p.LoanID == loanID {
			total += p.Amount
		}
	}
	return total, nil
}

type fakeClientRepo struct {
	store *memStore
}

func (r *fakeClientRepo) FindByID(ctx context.Context, id string) (*models.Client, error) {
	client, ok := r.store.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *fakeClientRepo) FindAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	for _, c := range r.store.clients {
		clients = append(clients, *c)
	}
	return clients, nil
}

func (r *fakeClientRepo) Search(ctx context.Context, term string) ([]models.Client, error) {
	return r.FindAll(ctx)
}

func (r *fakeClientRepo) Create(ctx context.Context, client *models.Client) error {
	copied := *client
	r.store.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) Update(ctx context.Context, client *models.Client) error {
	return r.Create(ctx, client)
}

func (r *fakeClientRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.clients, id)
	return nil
}

func (r *fakeClientRepo) HasLoans(ctx context.Context, id string) (bool, error) {
	for _, loan := range r.store.loans {
		if loan.ClientID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	for _, e := range r.entries {
		logs = append(logs, *e)
	}
	return logs, int64(len(logs)), nil
}
