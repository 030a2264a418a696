package models

import (
	"time"
)

// Setting holds the business profile shown on receipts and reports.
// A single row with ID 1 is kept.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyName string    `gorm:"not null" json:"company_name"`
	OwnerName   string    `gorm:"not null" json:"owner_name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Motto       string    `json:"motto"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}

// DefaultSetting returns the row seeded when no business profile exists yet
func DefaultSetting() *Setting {
	return &Setting{
		ID:          1,
		CompanyName: "Mi Empresa",
		OwnerName:   "Responsable",
		Address:     "",
		Phone:       "",
		Motto:       "",
	}
}
