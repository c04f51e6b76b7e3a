package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// auth attempt labels
const (
	authMethodAPIKey = "api_key"
	authMethodBearer = "bearer"
	authMethodNone   = "none"

	authOutcomeAccepted    = "accepted"
	authOutcomeRejected    = "rejected"
	authOutcomeUnknownUser = "unknown_user"
)

type metrics struct {
	registry     *prometheus.Registry
	authAttempts *prometheus.CounterVec
}

// newMetrics uses its own registry so that several servers can live in one process (tests).
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "englishpoc_auth_attempts_total",
				Help: "Authentication attempts by credential method and outcome.",
			},
			[]string{"method", "outcome"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.authAttempts,
	)
	return m
}

func (m *metrics) authAttempt(method, outcome string) {
	m.authAttempts.WithLabelValues(method, outcome).Inc()
}

func (m *metrics) handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
