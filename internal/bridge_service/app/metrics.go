package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsReceivedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "events_received_total",
			Help:      "Total number of raw message events received from NATS.",
		},
		[]string{"subject_pattern"},
	)

	messagesProcessedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "messages_processed_total",
			Help:      "Total number of message events processed.",
		},
		[]string{"direction", "status"}, // status: "delivered", "skipped", "error_resolve"
	)

	processingDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bridge",
			Name:      "message_processing_duration_seconds",
			Help:      "Duration of message event processing.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	sinkDeliveryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "sink_deliveries_total",
			Help:      "Total number of sink delivery attempts.",
		},
		[]string{"sink", "status"}, // status: "success", "error"
	)

	contactsRegisteredCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "contacts_registered_total",
			Help:      "Total number of contacts auto-registered from message events.",
		},
	)
)
