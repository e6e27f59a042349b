// Package metrics holds the Prometheus collectors for plan analyses.
package metrics

import (
	"time"

	"github.com/picklr-io/planrisk/internal/ir"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planrisk_analyses_total",
		Help: "Plan analyses by overall risk level",
	}, []string{"level"})

	resourcesAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planrisk_resources_analyzed_total",
		Help: "Analyzed resource changes by action",
	}, []string{"action"})

	analyzeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planrisk_analyze_duration_seconds",
		Help:    "Time spent analyzing one plan",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	costDelta = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planrisk_cost_delta_dollars",
		Help:    "Estimated monthly cost delta per analyzed plan",
		Buckets: []float64{-1000, -100, -10, 0, 10, 100, 1000, 10000},
	})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planrisk_rejected_requests_total",
		Help: "Analyze requests rejected before analysis, by reason",
	}, []string{"reason"})
)

// ObserveAnalysis records one completed analysis.
func ObserveAnalysis(a *ir.PlanAnalysis, elapsed time.Duration) {
	analysesTotal.WithLabelValues(string(a.OverallRiskLevel)).Inc()
	analyzeDuration.Observe(elapsed.Seconds())
	if a.CostAvailable {
		costDelta.Observe(a.CostDelta)
	}
	for _, r := range a.Resources {
		resourcesAnalyzed.WithLabelValues(string(r.Action)).Inc()
	}
}

// ObserveRejected records a request that never reached the engine.
func ObserveRejected(reason string) {
	rejectedTotal.WithLabelValues(reason).Inc()
}
