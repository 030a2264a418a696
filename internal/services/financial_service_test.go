package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestadero/prestamos-api/internal/models"
)

func TestComputeFinancialsMonths(t *testing.T) {
	svc := NewFinancialService()

	fin, err := svc.ComputeFinancials(1000, 5, 3, models.TermUnitMonths, "2024-01-01")
	require.NoError(t, err)

	// 1000 + 3 * (1000 * 5%) = 1150
	assert.Equal(t, 1150.0, fin.TotalDebt)
	assert.Equal(t, 1150.0, fin.AmountDue)
	assert.Equal(t, "2024-04-01", fin.DueDate)
}

func TestComputeFinancialsDays(t *testing.T) {
	svc := NewFinancialService()

	// Daily terms charge interest once over the whole term
	fin, err := svc.ComputeFinancials(500, 10, 10, models.TermUnitDays, "2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, 550.0, fin.TotalDebt)
	// 2024-01-01 is a Monday; ten collection days later, skipping the
	// Sunday the 7th, lands on Friday the 12th
	assert.Equal(t, "2024-01-12", fin.DueDate)
}

func TestComputeFinancialsDaysSkipsSundays(t *testing.T) {
	svc := NewFinancialService()

	// 2024-03-01 is a Friday. Counting 3 collection days crosses Sunday
	// the 3rd: Sat 2nd, Mon 4th, Tue 5th.
	fin, err := svc.ComputeFinancials(100, 10, 3, models.TermUnitDays, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", fin.DueDate)
}

func TestComputeFinancialsDaysTermTooLong(t *testing.T) {
	svc := NewFinancialService()

	_, err := svc.ComputeFinancials(500, 10, 26, models.TermUnitDays, "2024-01-01")
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = svc.ComputeFinancials(500, 10, 30, models.TermUnitDays, "2024-01-01")
	assert.ErrorIs(t, err, ErrInvalidTerms)

	// 25 days is still a valid daily term
	_, err = svc.ComputeFinancials(500, 10, 25, models.TermUnitDays, "2024-01-01")
	assert.NoError(t, err)
}

func TestComputeFinancialsWeeks(t *testing.T) {
	svc := NewFinancialService()

	fin, err := svc.ComputeFinancials(1000, 5, 4, models.TermUnitWeeks, "2024-01-01")
	require.NoError(t, err)

	// Interest accrues per week: 1000 + 4 * 50 = 1200
	assert.Equal(t, 1200.0, fin.TotalDebt)
	assert.Equal(t, "2024-01-29", fin.DueDate)
}

func TestComputeFinancialsRounding(t *testing.T) {
	svc := NewFinancialService()

	// 123.45 + 123.45 * 7% = 132.0915, rounds to 132.09
	fin, err := svc.ComputeFinancials(123.45, 7, 1, models.TermUnitMonths, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 132.09, fin.TotalDebt)
}

func TestComputeFinancialsDeterministic(t *testing.T) {
	svc := NewFinancialService()

	first, err := svc.ComputeFinancials(777.77, 9.5, 6, models.TermUnitMonths, "2024-02-15")
	require.NoError(t, err)
	second, err := svc.ComputeFinancials(777.77, 9.5, 6, models.TermUnitMonths, "2024-02-15")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeFinancialsValidation(t *testing.T) {
	svc := NewFinancialService()

	tests := []struct {
		name      string
		principal float64
		rate      float64
		length    int
		unit      string
		date      string
	}{
		{"zero principal", 0, 5, 3, models.TermUnitMonths, "2024-01-01"},
		{"negative principal", -100, 5, 3, models.TermUnitMonths, "2024-01-01"},
		{"negative rate", 1000, -1, 3, models.TermUnitMonths, "2024-01-01"},
		{"zero term", 1000, 5, 0, models.TermUnitMonths, "2024-01-01"},
		{"unknown unit", 1000, 5, 3, "fortnights", "2024-01-01"},
		{"bad date", 1000, 5, 3, models.TermUnitMonths, "01/01/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ComputeFinancials(tt.principal, tt.rate, tt.length, tt.unit, tt.date)
			assert.ErrorIs(t, err, ErrInvalidTerms)
		})
	}
}

func TestDailyInstallment(t *testing.T) {
	svc := NewFinancialService()

	// Daily terms: the quota is the total over the term days
	assert.Equal(t, 55.0, svc.DailyInstallment(550, 10, models.TermUnitDays))

	// Monthly terms assume 26 collection days per month
	assert.Equal(t, 14.74, svc.DailyInstallment(1150, 3, models.TermUnitMonths))

	// Weekly terms assume 6 collection days per week
	assert.Equal(t, 50.0, svc.DailyInstallment(1200, 4, models.TermUnitWeeks))

	assert.Equal(t, 0.0, svc.DailyInstallment(1000, 0, models.TermUnitDays))
	assert.Equal(t, 0.0, svc.DailyInstallment(1000, 3, "fortnights"))
}
