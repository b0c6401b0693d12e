package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skillorbit"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Service owns a private registry; a nil *Service records nothing.
type Service struct {
	registry     *prometheus.Registry
	authOps      *prometheus.CounterVec
	mailDispatch *prometheus.CounterVec
}

func New() *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Service{
		registry: registry,
		authOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "Auth operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		mailDispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_dispatch_total",
			Help:      "Asynchronous mail sends by template and outcome.",
		}, []string{"template", "outcome"}),
	}
	registry.MustRegister(s.authOps, s.mailDispatch)
	return s
}

func (s *Service) RecordAuth(operation, outcome string) {
	if s == nil {
		return
	}
	s.authOps.WithLabelValues(operation, outcome).Inc()
}

func (s *Service) RecordMail(template, outcome string) {
	if s == nil {
		return
	}
	s.mailDispatch.WithLabelValues(template, outcome).Inc()
}

func (s *Service) Registry() *prometheus.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Service) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
