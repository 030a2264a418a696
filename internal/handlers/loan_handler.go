package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prestadero/prestamos-api/internal/middleware"
	"github.com/prestadero/prestamos-api/internal/repository"
	"github.com/prestadero/prestamos-api/internal/services"
)

type LoanHandler struct {
	loanService    *services.LoanService
	paymentService *services.PaymentService
}

func NewLoanHandler(loanService *services.LoanService, paymentService *services.PaymentService) *LoanHandler {
	return &LoanHandler{loanService: loanService, paymentService: paymentService}
}

// parseListQuery reads pagination, search, filter and sort parameters.
// Page and per_page fall back to their defaults on zero, negative or
// non-numeric values so downstream pagination math stays safe.
func parseListQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = 20
	}
	query.Search = c.Query("search")
	query.Filters["outstanding"] = c.Query("outstanding")
	query.Filters["currency"] = c.Query("currency")

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}
	return query
}

// Index lists loans with search, filters and pagination
func (h *LoanHandler) Index(c *gin.Context) {
	query := parseListQuery(c)

	loans, total, err := h.loanService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"loans": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show returns a loan with its payment history
func (h *LoanHandler) Show(c *gin.Context) {
	loan, err := h.loanService.Get(c.Request.Context(), c.Param("loan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan.ToResponse()})
}

// Create originates a loan
func (h *LoanHandler) Create(c *gin.Context) {
	var input services.LoanInput
	if err := BindNestedOrFlat(c, "loan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del préstamo inválidos"})
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loan": loan.ToResponse(), "message": "Préstamo registrado"})
}

// Update edits a loan's terms and reconciles its balance
func (h *LoanHandler) Update(c *gin.Context) {
	var input services.LoanInput
	if err := BindNestedOrFlat(c, "loan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del préstamo inválidos"})
		return
	}

	loan, err := h.loanService.Update(c.Request.Context(), c.Param("loan_id"), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan.ToResponse(), "message": "Préstamo actualizado"})
}

// Destroy deletes a loan and its payment history
func (h *LoanHandler) Destroy(c *gin.Context) {
	if err := h.loanService.Delete(c.Request.Context(), c.Param("loan_id"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Préstamo eliminado"})
}

// Quote previews the derived figures for a set of terms without saving
func (h *LoanHandler) Quote(c *gin.Context) {
	var input services.LoanInput
	if err := BindNestedOrFlat(c, "loan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del préstamo inválidos"})
		return
	}
	// A quote does not need an existing client
	if input.ClientID == "" {
		input.ClientID = "-"
	}

	quote, err := h.loanService.Quote(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// IndexPayments lists a loan's payments, newest first
func (h *LoanHandler) IndexPayments(c *gin.Context) {
	payments, err := h.paymentService.ByLoan(c.Request.Context(), c.Param("loan_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses})
}

// CreatePayment records a payment against a loan
func (h *LoanHandler) CreatePayment(c *gin.Context) {
	var input services.PaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del abono inválidos"})
		return
	}

	result, err := h.paymentService.Record(c.Request.Context(), c.Param("loan_id"), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"payment": result.Payment.ToResponse(),
		"loan":    result.Loan.ToResponse(),
		"message": "Abono registrado",
	}
	if result.Overpaid {
		resp["warning"] = "El total abonado excede la deuda del préstamo"
	}
	c.JSON(http.StatusCreated, resp)
}
