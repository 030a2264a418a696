package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prestadero/prestamos-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Payments reports every payment collected in a date range.
// Pass format=csv to download it as a file.
func (h *ReportHandler) Payments(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	if c.Query("format") == "csv" {
		buf, err := h.reportService.PaymentsByRangeCSV(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		sendCSV(c, "abonos.csv", buf.String())
		return
	}

	rows, err := h.reportService.PaymentsByRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Loans reports every loan originated in a date range
func (h *ReportHandler) Loans(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	if c.Query("format") == "csv" {
		buf, err := h.reportService.LoansByRangeCSV(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		sendCSV(c, "prestamos.csv", buf.String())
		return
	}

	rows, err := h.reportService.LoansByRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// CashCount is the daily cash count ("arqueo de caja"); the date defaults
// to today
func (h *ReportHandler) CashCount(c *gin.Context) {
	day := c.Query("date")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}

	if c.Query("format") == "csv" {
		buf, err := h.reportService.CashCountCSV(c.Request.Context(), day)
		if err != nil {
			respondError(c, err)
			return
		}
		sendCSV(c, "arqueo_"+day+".csv", buf.String())
		return
	}

	rows, err := h.reportService.CashCount(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "date": day})
}

// Overdue reports the outstanding loans past their due date
func (h *ReportHandler) Overdue(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	if c.Query("format") == "csv" {
		buf, err := h.reportService.OverdueLoansCSV(c.Request.Context(), today)
		if err != nil {
			respondError(c, err)
			return
		}
		sendCSV(c, "mora.csv", buf.String())
		return
	}

	rows, err := h.reportService.OverdueLoans(c.Request.Context(), today)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func sendCSV(c *gin.Context, filename, body string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.String(http.StatusOK, body)
}
