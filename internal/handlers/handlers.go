package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prestadero/prestamos-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	User    *UserHandler
	Client  *ClientHandler
	Loan    *LoanHandler
	Payment *PaymentHandler
	Report  *ReportHandler
	Stats   *StatsHandler
	Setting *SettingHandler
	Audit   *AuditHandler
	Job     *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Auth:    NewAuthHandler(svcs.Auth),
		User:    NewUserHandler(svcs.User),
		Client:  NewClientHandler(svcs.Client, svcs.Loan),
		Loan:    NewLoanHandler(svcs.Loan, svcs.Payment),
		Payment: NewPaymentHandler(svcs.Payment),
		Report:  NewReportHandler(svcs.Report),
		Stats:   NewStatsHandler(svcs.Stats),
		Setting: NewSettingHandler(svcs.Setting),
		Audit:   NewAuditHandler(svcs.Audit),
		Job:     NewJobHandler(svcs.Job),
	}
}

// respondError maps service errors to HTTP statuses with a JSON body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTerms),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrClientHasLoans),
		errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
