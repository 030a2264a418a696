package models

import (
	"time"
)

// Payment represents one reduction against a loan's balance ("abono")
type Payment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	LoanID    string    `gorm:"not null;index" json:"loan_id"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date      string    `gorm:"type:date;not null;index" json:"date"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Loan Loan `gorm:"foreignKey:LoanID" json:"-"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID         string  `json:"id"`
	LoanID     string  `json:"loan_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	ClientName string  `json:"client_name,omitempty"`
	Currency   string  `json:"currency,omitempty"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:     p.ID,
		LoanID: p.LoanID,
		Amount: p.Amount,
		Date:   p.Date,
	}

	if p.Loan.ID != "" {
		resp.ClientName = p.Loan.ClientName
		resp.Currency = p.Loan.Currency
	}

	return resp
}
