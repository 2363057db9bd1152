package kafka

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_events_total",
			Help: "Events handed to the Kafka writer, by outcome",
		},
		[]string{"topic", "event_type", "status"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kafka_producer_publish_duration_seconds",
			Help: "Time spent in WriteMessages per event",
			// Up to the default 5s write timeout.
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"topic"},
	)
)

func observePublish(topic, eventType string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	eventsPublishedTotal.WithLabelValues(topic, eventType, status).Inc()
	publishDuration.WithLabelValues(topic).Observe(elapsed.Seconds())
}
