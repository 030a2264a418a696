package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prestadero/prestamos-api/internal/models"
	"github.com/prestadero/prestamos-api/internal/repository"
	"github.com/prestadero/prestamos-api/pkg/logger"
)

const (
	statsCacheKey = "stats:portfolio"
	statsCacheTTL = time.Minute
)

// PortfolioStats is the dashboard summary of the whole book.
type PortfolioStats struct {
	OutstandingLoans int     `json:"outstanding_loans"`
	OverdueLoans     int     `json:"overdue_loans"`
	DueCordoba       float64 `json:"due_cordoba"`
	DueDollar        float64 `json:"due_dollar"`
	CollectedToday   float64 `json:"collected_today"`
	GeneratedAt      string  `json:"generated_at"`
}

// StatsService computes the portfolio summary, caching the result so the
// dashboard does not rescan the book on every request.
type StatsService struct {
	loanRepo   repository.LoanRepository
	reportRepo repository.ReportRepository
	cache      repository.CacheRepository
}

func NewStatsService(loanRepo repository.LoanRepository, reportRepo repository.ReportRepository, cache repository.CacheRepository) *StatsService {
	return &StatsService{
		loanRepo:   loanRepo,
		reportRepo: reportRepo,
		cache:      cache,
	}
}

// Portfolio returns the cached summary, recomputing it when stale.
func (s *StatsService) Portfolio(ctx context.Context) (*PortfolioStats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		var stats PortfolioStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the summary and replaces the cached copy.
func (s *StatsService) Refresh(ctx context.Context) (*PortfolioStats, error) {
	loans, err := s.loanRepo.FindOutstanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding loans: %w", err)
	}

	now := time.Now()
	today := now.Format(DateLayout)

	stats := &PortfolioStats{
		OutstandingLoans: len(loans),
		GeneratedAt:      now.Format(time.RFC3339),
	}

	for _, loan := range loans {
		if loan.IsOverdue(now) {
			stats.OverdueLoans++
		}
		switch loan.Currency {
		case models.CurrencyDollar:
			stats.DueDollar = round2(stats.DueDollar + loan.AmountDue)
		default:
			stats.DueCordoba = round2(stats.DueCordoba + loan.AmountDue)
		}
	}

	collected, err := s.reportRepo.CashCountByDay(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's collections: %w", err)
	}
	for _, row := range collected {
		stats.CollectedToday = round2(stats.CollectedToday + row.Amount)
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(statsCacheKey, string(encoded), statsCacheTTL); err != nil {
			logger.Warn("failed to cache portfolio stats", "error", err)
		}
	}

	return stats, nil
}
