package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/prestadero/prestamos-api/internal/repository"
)

// ReportService runs the read-only ledger reports. Every report is
// available as rows (for JSON responses) and as a CSV export.
type ReportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// PaymentsByRange lists every payment collected between two dates.
func (s *ReportService) PaymentsByRange(ctx context.Context, from, to string) ([]repository.PaymentReportRow, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.reportRepo.PaymentsByRange(ctx, from, to)
}

// LoansByRange lists every loan originated between two dates.
func (s *ReportService) LoansByRange(ctx context.Context, from, to string) ([]repository.LoanReportRow, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.reportRepo.LoansByRange(ctx, from, to)
}

// CashCount is the daily cash count ("arqueo de caja") for one date.
func (s *ReportService) CashCount(ctx context.Context, day string) ([]repository.PaymentReportRow, error) {
	if err := validateDate(day); err != nil {
		return nil, err
	}
	return s.reportRepo.CashCountByDay(ctx, day)
}

// OverdueLoans lists the outstanding loans past their due date as of today.
func (s *ReportService) OverdueLoans(ctx context.Context, today string) ([]repository.OverdueReportRow, error) {
	if err := validateDate(today); err != nil {
		return nil, err
	}
	return s.reportRepo.OverdueLoans(ctx, today)
}

// PaymentsByRangeCSV renders the payments report as CSV.
func (s *ReportService) PaymentsByRangeCSV(ctx context.Context, from, to string) (*bytes.Buffer, error) {
	rows, err := s.PaymentsByRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return paymentRowsCSV(rows)
}

// CashCountCSV renders the daily cash count as CSV.
func (s *ReportService) CashCountCSV(ctx context.Context, day string) (*bytes.Buffer, error) {
	rows, err := s.CashCount(ctx, day)
	if err != nil {
		return nil, err
	}
	return paymentRowsCSV(rows)
}

// LoansByRangeCSV renders the originations report as CSV.
func (s *ReportService) LoansByRangeCSV(ctx context.Context, from, to string) (*bytes.Buffer, error) {
	rows, err := s.LoansByRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Fecha", "Cliente", "Capital"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.ClientName,
			fmt.Sprintf("%.2f", row.Principal),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

// OverdueLoansCSV renders the overdue report as CSV.
func (s *ReportService) OverdueLoansCSV(ctx context.Context, today string) (*bytes.Buffer, error) {
	rows, err := s.OverdueLoans(ctx, today)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Fecha Entrega", "Fecha Vencimiento", "Cliente", "Capital", "Saldo"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.OriginationDate,
			row.DueDate,
			row.ClientName,
			fmt.Sprintf("%.2f", row.Principal),
			fmt.Sprintf("%.2f", row.AmountDue),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

func paymentRowsCSV(rows []repository.PaymentReportRow) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Fecha", "Cliente", "Capital", "Abono"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.ClientName,
			fmt.Sprintf("%.2f", row.Principal),
			fmt.Sprintf("%.2f", row.Amount),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

func validateRange(from, to string) error {
	if err := validateDate(from); err != nil {
		return err
	}
	if err := validateDate(to); err != nil {
		return err
	}
	if to < from {
		return fmt.Errorf("%w: el rango de fechas está invertido", ErrInvalidInput)
	}
	return nil
}

func validateDate(date string) error {
	if !isValidDate(date) {
		return fmt.Errorf("%w: fecha inválida %q", ErrInvalidInput, date)
	}
	return nil
}
