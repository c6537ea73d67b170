package compiler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// compileTotal counts plan builds by optimization level and outcome
	compileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldexpr_plan_compile_total",
		Help: "Total plan compilations by optimization level and outcome",
	}, []string{"optimize", "outcome"})

	// compileDuration tracks plan build latency
	compileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fieldexpr_plan_compile_duration_seconds",
		Help:    "Plan compilation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"optimize"})

	// planInstructions tracks the size of built plans
	planInstructions = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fieldexpr_plan_instructions",
		Help:    "Number of instructions per compiled plan",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	})

	// passEffects counts nodes removed or merged by each optimization pass
	passEffects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldexpr_plan_pass_effects_total",
		Help: "Nodes shared, folded or fused by optimization passes",
	}, []string{"pass"})
)
