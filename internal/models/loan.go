package models

import (
	"time"
)

// Loan represents a credit extended to a client ("préstamo")
type Loan struct {
	ID              string  `gorm:"primaryKey" json:"id"`
	ClientID        string  `gorm:"not null;index" json:"client_id"`
	ClientName      string  `gorm:"not null" json:"client_name"` // Denormalized copy so listings avoid a join
	Principal       float64 `gorm:"type:decimal(12,2);not null" json:"principal"`
	Currency        string  `gorm:"default:C$;not null" json:"currency"`
	InterestRate    float64 `gorm:"not null" json:"interest_rate"`
	OriginationDate string  `gorm:"type:date;not null;index" json:"origination_date"`
	TermLength      int     `gorm:"not null" json:"term_length"`
	TermUnit        string  `gorm:"not null" json:"term_unit"`

	// Derived fields. TotalDebt is the original principal + interest, fixed
	// until the terms are edited; AmountDue is the remaining balance.
	TotalDebt   float64 `gorm:"type:decimal(12,2);not null" json:"total_debt"`
	AmountDue   float64 `gorm:"type:decimal(12,2);not null" json:"amount_due"`
	Outstanding bool    `gorm:"default:true;not null;index" json:"outstanding"`
	DueDate     string  `gorm:"type:date;not null;index" json:"due_date"`
	AmountPaid  float64 `gorm:"type:decimal(12,2);default:0;not null" json:"amount_paid"`
	DelayDays   int     `gorm:"default:0;not null" json:"delay_days"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Client   Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// Term unit constants
const (
	TermUnitDays   = "days"
	TermUnitWeeks  = "weeks"
	TermUnitMonths = "months"
)

// Currency constants (córdobas and US dollars)
const (
	CurrencyCordoba = "C$"
	CurrencyDollar  = "$"
)

// Loan state names used by the ledger state machine
const (
	LoanStateOutstanding = "outstanding"
	LoanStateSettled     = "settled"
)

// ValidTermUnit reports whether unit is one of the supported term units
func ValidTermUnit(unit string) bool {
	return unit == TermUnitDays || unit == TermUnitWeeks || unit == TermUnitMonths
}

// State returns the loan's ledger state name derived from the outstanding flag
func (l *Loan) State() string {
	if l.Outstanding {
		return LoanStateOutstanding
	}
	return LoanStateSettled
}

// IsOverdue returns true if the loan is outstanding and past its due date
func (l *Loan) IsOverdue(today time.Time) bool {
	if !l.Outstanding {
		return false
	}
	due, err := time.Parse("2006-01-02", l.DueDate)
	if err != nil {
		return false
	}
	return today.Truncate(24 * time.Hour).After(due)
}

// OverdueDays returns the number of whole days past the due date
func (l *Loan) OverdueDays(today time.Time) int {
	if !l.IsOverdue(today) {
		return 0
	}
	due, _ := time.Parse("2006-01-02", l.DueDate)
	return int(today.Sub(due).Hours() / 24)
}

// LoanResponse is the JSON response format for loans
type LoanResponse struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"client_id"`
	ClientName      string  `json:"client_name"`
	Principal       float64 `json:"principal"`
	Currency        string  `json:"currency"`
	InterestRate    float64 `json:"interest_rate"`
	OriginationDate string  `json:"origination_date"`
	TermLength      int     `json:"term_length"`
	TermUnit        string  `json:"term_unit"`
	TotalDebt       float64 `json:"total_debt"`
	AmountDue       float64 `json:"amount_due"`
	AmountPaid      float64 `json:"amount_paid"`
	Outstanding     bool    `json:"outstanding"`
	State           string  `json:"state"`
	DueDate         string  `json:"due_date"`
	DelayDays       int     `json:"delay_days"`

	Payments []PaymentResponse `json:"payments,omitempty"`
}

// ToResponse converts Loan to LoanResponse
func (l *Loan) ToResponse() LoanResponse {
	resp := LoanResponse{
		ID:              l.ID,
		ClientID:        l.ClientID,
		ClientName:      l.ClientName,
		Principal:       l.Principal,
		Currency:        l.Currency,
		InterestRate:    l.InterestRate,
		OriginationDate: l.OriginationDate,
		TermLength:      l.TermLength,
		TermUnit:        l.TermUnit,
		TotalDebt:       l.TotalDebt,
		AmountDue:       l.AmountDue,
		AmountPaid:      l.AmountPaid,
		Outstanding:     l.Outstanding,
		State:           l.State(),
		DueDate:         l.DueDate,
		DelayDays:       l.DelayDays,
	}

	for _, p := range l.Payments {
		resp.Payments = append(resp.Payments, p.ToResponse())
	}

	return resp
}
