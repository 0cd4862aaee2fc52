package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Battle counters exported on /metrics.
var (
	BattlesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battles_created_total",
		Help: "Battles created, by any caller.",
	})

	AnswersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battle_answers_submitted_total",
		Help: "Recorded answer submissions.",
	}, []string{"correct", "ai"})

	BattlesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battles_finished_total",
		Help: "Battles that reached a finished state.",
	})

	AnswerLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "battle_answer_latency_ms",
		Help:    "Reported answer latency in milliseconds.",
		Buckets: []float64{250, 500, 1000, 2000, 3000, 5000, 10000},
	})
)
