package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LoansCreated counts loans originated since process start.
	LoansCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prestamos_loans_created_total",
		Help: "Number of loans originated.",
	})

	// LoansSettled counts loans that reached a zero balance.
	LoansSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prestamos_loans_settled_total",
		Help: "Number of loans fully settled.",
	})

	// PaymentsRecorded counts payment mutations by kind (create, edit, delete).
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prestamos_payments_total",
		Help: "Number of payment mutations applied, by kind.",
	}, []string{"kind"})

	// ReconcileDuration observes how long a balance reconciliation takes.
	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prestamos_reconcile_duration_seconds",
		Help:    "Time spent recomputing a loan balance inside its transaction.",
		Buckets: prometheus.DefBuckets,
	})

	// HTTPRequests counts handled HTTP requests by method, path and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prestamos_http_requests_total",
		Help: "Number of HTTP requests handled.",
	}, []string{"method", "path", "status"})
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
