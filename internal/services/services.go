package services

import (
	"github.com/prestadero/prestamos-api/internal/config"
	"github.com/prestadero/prestamos-api/internal/jobs"
	"github.com/prestadero/prestamos-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	User    *UserService
	Client  *ClientService
	Loan    *LoanService
	Payment *PaymentService
	Report  *ReportService
	Stats   *StatsService
	Setting *SettingService
	Audit   *AuditService
	Job     *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cache repository.CacheRepository, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Audit)
	financialSvc := NewFinancialService()
	locks := NewLoanLocks()

	return &Services{
		Auth:    NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:    NewUserService(repos.User, auditSvc),
		Client:  NewClientService(repos.Client, auditSvc),
		Loan:    NewLoanService(repos, financialSvc, locks, auditSvc),
		Payment: NewPaymentService(repos, locks, auditSvc),
		Report:  NewReportService(repos.Report),
		Stats:   NewStatsService(repos.Loan, repos.Report, cache),
		Setting: NewSettingService(repos.Setting, auditSvc),
		Audit:   auditSvc,
		Job:     NewJobService(worker),
	}
}
