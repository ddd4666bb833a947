package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (no per-session labels)
var (
	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "asteroids_frame_duration_seconds",
		Help:    "Time spent simulating one frame",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0166},
	})

	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asteroids_frames_total",
		Help: "Frames simulated across all sessions",
	})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "asteroids_sessions_active",
		Help: "Sessions currently running",
	})

	sessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asteroids_sessions_ended_total",
		Help: "Sessions ended, by reason",
	}, []string{"reason"}) // Bounded: see endReason constants

	entitiesLive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "asteroids_entities_live",
		Help: "Live entities summed over sessions at the last broadcast",
	}, []string{"kind"})

	destroyedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asteroids_destroyed_total",
		Help: "Hazards destroyed by pilots",
	}, []string{"kind"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "asteroids_websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asteroids_websocket_rejected_total",
		Help: "WebSocket connections refused or dropped",
	}, []string{"reason"}) // Bounded: "limit", "rate"

	runsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asteroids_runs_recorded_total",
		Help: "Runs persisted to the database",
	})
)
