package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prestadero/prestamos-api/internal/middleware"
	"github.com/prestadero/prestamos-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Show returns one payment
func (h *PaymentHandler) Show(c *gin.Context) {
	payment, err := h.paymentService.Get(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// Update edits a payment's amount and date, reconciling the loan
func (h *PaymentHandler) Update(c *gin.Context) {
	var input services.PaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del abono inválidos"})
		return
	}

	result, err := h.paymentService.Edit(c.Request.Context(), c.Param("payment_id"), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"payment": result.Payment.ToResponse(),
		"loan":    result.Loan.ToResponse(),
		"message": "Abono actualizado",
	}
	if result.Overpaid {
		resp["warning"] = "El total abonado excede la deuda del préstamo"
	}
	c.JSON(http.StatusOK, resp)
}

// Destroy deletes a payment, restoring its amount to the loan's balance
func (h *PaymentHandler) Destroy(c *gin.Context) {
	loan, err := h.paymentService.Delete(c.Request.Context(), c.Param("payment_id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan.ToResponse(), "message": "Abono eliminado"})
}
