package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestadero/prestamos-api/internal/models"
)

// DateLayout is the ISO date format used across the loan ledger.
const DateLayout = "2006-01-02"

// maxDailyTerm is the exclusive upper bound for a term expressed in days.
// Daily loans at 26 days or more must be captured as weekly or monthly terms.
const maxDailyTerm = 26

// workingDaysPerWeek excludes Sundays, the only non-collection day.
const workingDaysPerWeek = 6

// workingDaysPerMonth is the collection-day convention for monthly terms.
const workingDaysPerMonth = 26

// LoanFinancials is the derived money state of a loan at origination.
type LoanFinancials struct {
	TotalDebt float64
	AmountDue float64
	DueDate   string
}

// FinancialService derives debt totals, due dates and installment quotas
// from a loan's captured terms. It is pure: same terms, same output.
type FinancialService struct{}

func NewFinancialService() *FinancialService {
	return &FinancialService{}
}

// ComputeFinancials calculates the total debt and due date for the given
// terms. Interest accrues per period for monthly and weekly terms; daily
// terms accrue a single flat interest charge over the whole term.
func (s *FinancialService) ComputeFinancials(principal, rate float64, termLength int, termUnit string, originationDate string) (*LoanFinancials, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("%w: el capital debe ser mayor que cero", ErrInvalidTerms)
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: la tasa de interés no puede ser negativa", ErrInvalidTerms)
	}
	if termLength <= 0 {
		return nil, fmt.Errorf("%w: el plazo debe ser mayor que cero", ErrInvalidTerms)
	}
	if !models.ValidTermUnit(termUnit) {
		return nil, fmt.Errorf("%w: unidad de plazo desconocida %q", ErrInvalidTerms, termUnit)
	}

	origin, err := time.Parse(DateLayout, originationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de origen inválida %q", ErrInvalidTerms, originationDate)
	}

	interestPerPeriod := principal * rate / 100

	var total float64
	var due time.Time

	switch termUnit {
	case models.TermUnitMonths:
		total = principal + interestPerPeriod*float64(termLength)
		due = origin.AddDate(0, termLength, 0)
	case models.TermUnitWeeks:
		total = principal + interestPerPeriod*float64(termLength)
		due = origin.AddDate(0, 0, 7*termLength)
	case models.TermUnitDays:
		if termLength >= maxDailyTerm {
			return nil, fmt.Errorf("%w: un plazo en días debe ser menor a %d", ErrInvalidTerms, maxDailyTerm)
		}
		total = principal + interestPerPeriod
		due = dueDateSkippingSundays(origin, termLength)
	}

	total = round2(total)
	return &LoanFinancials{
		TotalDebt: total,
		AmountDue: total,
		DueDate:   due.Format(DateLayout),
	}, nil
}

// DailyInstallment is the quota a collector expects on each collection day.
// Monthly terms assume 26 collection days per month, weekly terms 6 per week.
func (s *FinancialService) DailyInstallment(totalDebt float64, termLength int, termUnit string) float64 {
	if termLength <= 0 {
		return 0
	}
	var periods int
	switch termUnit {
	case models.TermUnitDays:
		periods = termLength
	case models.TermUnitWeeks:
		periods = termLength * workingDaysPerWeek
	case models.TermUnitMonths:
		periods = termLength * workingDaysPerMonth
	default:
		return 0
	}
	return round2(totalDebt / float64(periods))
}

// dueDateSkippingSundays walks forward from the day after origin, counting
// only collection days (every day except Sunday), until termDays have been
// counted. If the landing date were ever a Sunday it rolls to Monday.
func dueDateSkippingSundays(origin time.Time, termDays int) time.Time {
	date := origin
	counted := 0
	for counted < termDays {
		date = date.AddDate(0, 0, 1)
		if date.Weekday() != time.Sunday {
			counted++
		}
	}
	for date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// isValidDate reports whether date parses under the ledger's layout.
func isValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// round2 rounds a money amount to two decimal places using decimal
// arithmetic so repeated recomputation stays stable.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
