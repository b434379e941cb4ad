package pagedquery

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors a Paginator reports to.
type Metrics struct {
	// CountsTotal counts resolved totals by strategy.
	CountsTotal *prometheus.CounterVec
	// FallbacksTotal counts queries whose total needed a full scan or a subquery.
	FallbacksTotal *prometheus.CounterVec
	// ErrorsTotal counts failed calls by kind (data_source, construction).
	ErrorsTotal *prometheus.CounterVec
	// RowsPerPage tracks how many rows each call returned.
	RowsPerPage prometheus.Histogram
}

// NewMetrics builds the collectors and registers them with reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CountsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagedquery_counts_total",
				Help: "Total number of resolved row counts by strategy",
			},
			[]string{"strategy"},
		),
		FallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagedquery_count_fallback_total",
				Help: "Total number of counts that could not use the COUNT(*) rewrite",
			},
			[]string{"strategy"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagedquery_errors_total",
				Help: "Total number of failed pagination calls by error kind",
			},
			[]string{"kind"},
		),
		RowsPerPage: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pagedquery_rows_per_page",
				Help:    "Number of rows returned per paginated call",
				Buckets: []float64{0, 1, 10, 25, 50, 100, 500, 1000},
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.CountsTotal, m.FallbacksTotal, m.ErrorsTotal, m.RowsPerPage)
	}
	return m
}

func (m *Metrics) recordCount(s CountStrategy) {
	if m == nil {
		return
	}
	m.CountsTotal.WithLabelValues(string(s)).Inc()
	if s == CountFullScan || s == CountSubquery {
		m.FallbacksTotal.WithLabelValues(string(s)).Inc()
	}
}

func (m *Metrics) recordError(err error) {
	if m == nil {
		return
	}
	kind := "data_source"
	if isConstruction(err) {
		kind = "construction"
	}
	m.ErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) recordRows(n int) {
	if m == nil {
		return
	}
	m.RowsPerPage.Observe(float64(n))
}
