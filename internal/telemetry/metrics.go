package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики Briefly. Экспортируются через /metrics.
var (
	// DocumentsAdmitted — документы, принятые в сессию.
	DocumentsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "briefly_documents_admitted_total",
		Help: "Documents admitted into a user session",
	})

	// DocumentsRejected — отклонённые submissions по причине отказа.
	DocumentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "briefly_documents_rejected_total",
		Help: "Submissions rejected at admission, by reason",
	}, []string{"reason"})

	// DigestsProcessed — обработанные digests по итоговому статусу.
	DigestsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "briefly_digests_processed_total",
		Help: "Processed digests, by terminal status",
	}, []string{"status"})

	// DigestDocuments — распределение размера batch'а.
	DigestDocuments = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "briefly_digest_documents",
		Help:    "Documents per captured batch",
		Buckets: []float64{1, 2, 3, 5, 8, 13},
	})

	// DigestDuration — длительность обработки batch'а.
	DigestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "briefly_digest_duration_seconds",
		Help:    "Batch processing duration",
		Buckets: prometheus.DefBuckets,
	})

	// EmptyTimerFires — срабатывания таймера с пустым pending-списком.
	// В корректно сериализованной системе счётчик остаётся нулевым.
	EmptyTimerFires = promauto.NewCounter(prometheus.CounterOpts{
		Name: "briefly_empty_timer_fires_total",
		Help: "Debounce timer fires that found an empty pending list",
	})
)
