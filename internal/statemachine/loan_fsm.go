package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/prestadero/prestamos-api/internal/models"
)

// LoanFSM wraps a loan with its settlement state machine
type LoanFSM struct {
	loan *models.Loan
	fsm  *fsm.FSM
}

// NewLoanFSM creates a new loan state machine
func NewLoanFSM(loan *models.Loan) *LoanFSM {
	lfsm := &LoanFSM{
		loan: loan,
	}

	lfsm.fsm = fsm.NewFSM(
		loan.State(),
		fsm.Events{
			// outstanding → settled, once the amount due reaches zero
			{Name: "settle", Src: []string{models.LoanStateOutstanding}, Dst: models.LoanStateSettled},

			// settled → outstanding, when a payment edit or deletion revives debt
			{Name: "reopen", Src: []string{models.LoanStateSettled}, Dst: models.LoanStateOutstanding},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Settle transitions the loan to settled state
func (l *LoanFSM) Settle(ctx context.Context) error {
	if !l.fsm.Can("settle") {
		return fmt.Errorf("loan cannot be settled in current state: %s", l.loan.State())
	}

	if err := l.fsm.Event(ctx, "settle"); err != nil {
		return fmt.Errorf("failed to settle loan: %w", err)
	}

	l.loan.Outstanding = false
	return nil
}

// Reopen transitions the loan back to outstanding
func (l *LoanFSM) Reopen(ctx context.Context) error {
	if !l.fsm.Can("reopen") {
		return fmt.Errorf("loan cannot be reopened in current state: %s", l.loan.State())
	}

	if err := l.fsm.Event(ctx, "reopen"); err != nil {
		return fmt.Errorf("failed to reopen loan: %w", err)
	}

	l.loan.Outstanding = true
	return nil
}

// Current returns the current state
func (l *LoanFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LoanFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
