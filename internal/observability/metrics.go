package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics метрики цикла опроса и отправки сообщений.
// Методы допускают nil получатель, чтобы метрики можно было не подключать.
type Metrics struct {
	PollCycles   *prometheus.CounterVec
	PollErrors   *prometheus.CounterVec
	PollDuration prometheus.Histogram
	Messages     *prometheus.CounterVec
	Homeworks    prometheus.Gauge
	LastSuccess  prometheus.Gauge

	registry *prometheus.Registry
	handler  http.Handler
}

func NewMetrics() *Metrics {
	m := &Metrics{
		PollCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homework_poll_cycles_total",
				Help: "Total number of poll cycles",
			},
			[]string{"result"},
		),
		PollErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homework_poll_errors_total",
				Help: "Poll cycle failures by error kind",
			},
			[]string{"kind"},
		),
		PollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "homework_poll_duration_seconds",
				Help:    "Poll cycle duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homework_messages_total",
				Help: "Telegram messages by condition and result",
			},
			[]string{"condition", "result"},
		),
		Homeworks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "homework_last_poll_homeworks",
				Help: "Number of homework records returned by the last successful poll",
			},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "homework_last_success_timestamp_seconds",
				Help: "Unix time of the last successful poll cycle",
			},
		),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.PollCycles, m.PollErrors, m.PollDuration, m.Messages, m.Homeworks, m.LastSuccess)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})

	return m
}

// ObserveCycle учитывает завершенный цикл опроса; errorKind пустой при успехе
func (m *Metrics) ObserveCycle(duration time.Duration, homeworks int, errorKind string) {
	if m == nil {
		return
	}
	m.PollDuration.Observe(duration.Seconds())
	if errorKind != "" {
		m.PollCycles.WithLabelValues("error").Inc()
		m.PollErrors.WithLabelValues(errorKind).Inc()
		return
	}
	m.PollCycles.WithLabelValues("ok").Inc()
	m.Homeworks.Set(float64(homeworks))
	m.LastSuccess.SetToCurrentTime()
}

// ObserveMessage учитывает попытку отправки сообщения
func (m *Metrics) ObserveMessage(condition string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.Messages.WithLabelValues(condition, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
