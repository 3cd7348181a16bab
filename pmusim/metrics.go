package pmusim

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder tracks PMU server activity, grounded on the teacher's
// MetricsRecorder interface in metrics.go, trimmed to the events a
// simulated PMU actually emits.
type MetricsRecorder interface {
	RecordClientConnected()
	RecordClientDisconnected()
	RecordCommand(cmdName string)
	RecordDataFrameSent(size int)
	RecordConfigFrameSent(size int)
	RecordHeaderFrameSent(size int)
	RecordBytesReceived(size int)
	RecordFrameError(errorType string)
	UpdateDataFrameRate(rate float64)
	UpdateTickerSkew(skew, delaySeconds float64)
}

// PrometheusMetrics is the production MetricsRecorder, grounded on
// examples/pmu-server/metrics.go's promauto gauges but scoped per PMU
// IDCODE via label values instead of one process-wide gauge set, since
// a single binary may now simulate more than one station.
type PrometheusMetrics struct {
	idCode string

	clients       prometheus.Gauge
	commands      *prometheus.CounterVec
	dataFrames    prometheus.Counter
	configFrames  prometheus.Counter
	headerFrames  prometheus.Counter
	bytesRecv     prometheus.Counter
	frameErrors   *prometheus.CounterVec
	dataFrameRate prometheus.Gauge
	tickerSkew    prometheus.Gauge
	tickerDelay   prometheus.Gauge
}

var (
	clientsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pmu_clients_connected",
		Help: "Number of connected PDC clients",
	}, []string{"pmu"})

	commandsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmu_commands_total",
		Help: "Commands received, by name",
	}, []string{"pmu", "command"})

	dataFramesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmu_data_frames_sent_total",
		Help: "Data frames transmitted",
	}, []string{"pmu"})

	configFramesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmu_config_frames_sent_total",
		Help: "Configuration frames transmitted",
	}, []string{"pmu"})

	headerFramesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmu_header_frames_sent_total",
		Help: "Header frames transmitted",
	}, []string{"pmu"})

	bytesRecvCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmu_bytes_received_total",
		Help: "Bytes received from PDC clients",
	}, []string{"pmu"})

	frameErrorsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmu_frame_errors_total",
		Help: "Frame encode/decode errors, by type",
	}, []string{"pmu", "type"})

	dataFrameRateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pmu_data_frame_rate_hz",
		Help: "Current data frame transmission rate in Hz",
	}, []string{"pmu"})

	tickerSkewGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pmu_wall_ticker_skew",
		Help: "wallTicker timing skew factor",
	}, []string{"pmu"})

	tickerDelayGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pmu_wall_ticker_delay_seconds",
		Help: "wallTicker next tick delay in seconds",
	}, []string{"pmu"})
)

// NewPrometheusMetrics builds a MetricsRecorder whose series are labeled
// with idCode, so one process can run several simulated PMUs without
// their metrics clobbering each other.
func NewPrometheusMetrics(idCode uint16) *PrometheusMetrics {
	label := fmt.Sprintf("%d", idCode)
	return &PrometheusMetrics{
		idCode:        label,
		clients:       clientsGauge.WithLabelValues(label),
		dataFrames:    dataFramesCounter.WithLabelValues(label),
		configFrames:  configFramesCounter.WithLabelValues(label),
		headerFrames:  headerFramesCounter.WithLabelValues(label),
		bytesRecv:     bytesRecvCounter.WithLabelValues(label),
		dataFrameRate: dataFrameRateGauge.WithLabelValues(label),
		tickerSkew:    tickerSkewGauge.WithLabelValues(label),
		tickerDelay:   tickerDelayGauge.WithLabelValues(label),
		commands:      commandsCounter,
		frameErrors:   frameErrorsCounter,
	}
}

func (m *PrometheusMetrics) RecordClientConnected()    { m.clients.Inc() }
func (m *PrometheusMetrics) RecordClientDisconnected() { m.clients.Dec() }
func (m *PrometheusMetrics) RecordCommand(cmdName string) {
	m.commands.WithLabelValues(m.idCode, cmdName).Inc()
}
func (m *PrometheusMetrics) RecordDataFrameSent(size int)   { m.dataFrames.Inc() }
func (m *PrometheusMetrics) RecordConfigFrameSent(size int) { m.configFrames.Inc() }
func (m *PrometheusMetrics) RecordHeaderFrameSent(size int) { m.headerFrames.Inc() }
func (m *PrometheusMetrics) RecordBytesReceived(size int)   { m.bytesRecv.Add(float64(size)) }
func (m *PrometheusMetrics) RecordFrameError(errorType string) {
	m.frameErrors.WithLabelValues(m.idCode, errorType).Inc()
}
func (m *PrometheusMetrics) UpdateDataFrameRate(rate float64) { m.dataFrameRate.Set(rate) }
func (m *PrometheusMetrics) UpdateTickerSkew(skew, delaySeconds float64) {
	m.tickerSkew.Set(skew)
	m.tickerDelay.Set(delaySeconds)
}
