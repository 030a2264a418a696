package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestadero/prestamos-api/internal/models"
)

func TestLoanFSMSettleAndReopen(t *testing.T) {
	loan := &models.Loan{ID: "loan-1", Outstanding: true}
	lfsm := NewLoanFSM(loan)

	assert.Equal(t, models.LoanStateOutstanding, lfsm.Current())
	assert.True(t, lfsm.Can("settle"))
	assert.False(t, lfsm.Can("reopen"))

	require.NoError(t, lfsm.Settle(context.Background()))
	assert.Equal(t, models.LoanStateSettled, lfsm.Current())
	assert.False(t, loan.Outstanding)

	require.NoError(t, lfsm.Reopen(context.Background()))
	assert.Equal(t, models.LoanStateOutstanding, lfsm.Current())
	assert.True(t, loan.Outstanding)
}

func TestLoanFSMRejectsInvalidTransitions(t *testing.T) {
	ctx := context.Background()

	outstanding := NewLoanFSM(&models.Loan{ID: "loan-1", Outstanding: true})
	err := outstanding.Reopen(ctx)
	assert.Error(t, err)
	assert.Equal(t, models.LoanStateOutstanding, outstanding.Current())

	settled := NewLoanFSM(&models.Loan{ID: "loan-2", Outstanding: false})
	err = settled.Settle(ctx)
	assert.Error(t, err)
	assert.Equal(t, models.LoanStateSettled, settled.Current())
}

func TestLoanFSMSeedsFromLoanState(t *testing.T) {
	settled := NewLoanFSM(&models.Loan{ID: "loan-3", Outstanding: false})
	assert.Equal(t, models.LoanStateSettled, settled.Current())
	assert.True(t, settled.Can("reopen"))
}
