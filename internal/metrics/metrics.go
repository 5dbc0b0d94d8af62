package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DonationsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "danakita_donations_completed_total",
		Help: "Completed donations recorded in the ledger.",
	})

	TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "danakita_ledger_transactions_total",
		Help: "Ledger entries recorded, by category.",
	}, []string{"category"})

	ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "danakita_financial_reports_generated_total",
		Help: "Financial report snapshots generated.",
	})
)
