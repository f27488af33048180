// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package perm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for permission graph compilation.
var (
	// compileDuration tracks the latency of Compile() calls.
	compileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "perm_compile_duration_seconds",
		Help:    "Histogram of permission graph compilation latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// compileBatches counts compilation batches.
	compileBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perm_compile_batches_total",
		Help: "Total number of permission compilation batches",
	})

	// grantsCompiled counts individual grants by outcome.
	grantsCompiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perm_grants_compiled_total",
		Help: "Total number of permission grants processed, by outcome",
	}, []string{"outcome"})
)

// Outcome labels for grantsCompiled.
const (
	outcomeOK                  = "ok"
	outcomeSyntaxError         = "syntax_error"
	outcomeMalformedIdentifier = "malformed_identifier"
	outcomeContractViolation   = "contract_violation"
)

// recordCompileMetrics records metrics for one completed batch.
func recordCompileMetrics(duration time.Duration, diagnostics []Diagnostic, compiled int) {
	compileBatches.Inc()
	compileDuration.Observe(duration.Seconds())
	grantsCompiled.WithLabelValues(outcomeOK).Add(float64(compiled))
	for _, d := range diagnostics {
		grantsCompiled.WithLabelValues(outcomeLabel(d.Code)).Inc()
	}
}

func outcomeLabel(code string) string {
	switch code {
	case CodeSyntax:
		return outcomeSyntaxError
	case CodeMalformedIdentifier:
		return outcomeMalformedIdentifier
	default:
		return outcomeContractViolation
	}
}
