package metrics

import (
	"time"

	"github.com/GabrielNunesIT/structlog/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// RecordMetrics counts written log records. It implements logger.Observer and is
// attached with logger.WithObserver.
//
//   - records_total (counter vec: level, stream)
//   - last_record_timestamp_seconds (gauge vec: level)
type RecordMetrics struct {
	recordsTotal *prometheus.CounterVec
	lastRecord   *prometheus.GaugeVec
	now          func() time.Time
}

// NewRecordMetrics creates and registers the record metrics on reg.
func NewRecordMetrics(reg *Registry) *RecordMetrics {
	return &RecordMetrics{
		recordsTotal: reg.NewCounterVec(
			"records_total",
			"Total number of log records written.",
			[]string{"level", "stream"},
		),
		lastRecord: reg.NewGaugeVec(
			"last_record_timestamp_seconds",
			"Unix time of the last log record written at each level.",
			[]string{"level"},
		),
		now: time.Now,
	}
}

// ObserveRecord implements logger.Observer.
func (m *RecordMetrics) ObserveRecord(level logger.Level, stream logger.Stream) {
	m.recordsTotal.WithLabelValues(level.String(), stream.String()).Inc()
	m.lastRecord.WithLabelValues(level.String()).Set(float64(m.now().Unix()))
}

// RecordsTotal returns the underlying counter vec.
func (m *RecordMetrics) RecordsTotal() *prometheus.CounterVec {
	return m.recordsTotal
}

// LastRecord returns the underlying gauge vec.
func (m *RecordMetrics) LastRecord() *prometheus.GaugeVec {
	return m.lastRecord
}
