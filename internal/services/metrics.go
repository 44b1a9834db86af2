// Package services – pipeline instrumentation
//
// This file exposes Prometheus collectors for the moderation pipeline.
// Label cardinality is kept bounded: the only label is the terminal outcome
// of a message, which is a small fixed set.
package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// pipelineMsgs counts processed messages by terminal outcome.
	pipelineMsgs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_messages_total",
			Help: "Total number of messages processed by the moderation pipeline.",
		},
		[]string{"outcome"},
	)

	// pipelineLat records end-to-end pipeline duration in seconds. Outcome
	// is omitted to keep histogram cardinality low.
	pipelineLat = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moderation_pipeline_duration_seconds",
			Help:    "Duration of one message's moderation pipeline run.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// pipelineInflight gauges messages currently being processed.
	pipelineInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "moderation_messages_inflight",
			Help: "Current number of in-flight pipeline runs.",
		},
	)
)

func init() {
	prometheus.MustRegister(pipelineMsgs, pipelineLat, pipelineInflight)
}

// observeOutcome records one finished pipeline run.
func observeOutcome(outcome Outcome, start time.Time) {
	pipelineMsgs.WithLabelValues(outcome.String()).Inc()
	pipelineLat.Observe(time.Since(start).Seconds())
}
