package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcome labels.
const (
	outcomeSent      = "sent"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

var (
	dispatchRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unibox",
			Subsystem: "dispatcher",
			Name:      "records_processed_total",
			Help:      "Total scheduled messages processed by dispatch cycles, by outcome.",
		},
		[]string{"outcome", "channel"},
	)

	dispatchCyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unibox",
			Subsystem: "dispatcher",
			Name:      "cycles_total",
			Help:      "Total dispatch cycles executed.",
		},
	)

	dispatchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "unibox",
			Subsystem: "dispatcher",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a full dispatch cycle.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
