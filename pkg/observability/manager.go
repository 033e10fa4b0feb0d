package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/snow-ghost/featsel/pkg/logging"
	"github.com/snow-ghost/featsel/pkg/metrics"
	"github.com/snow-ghost/featsel/pkg/tracing"
)

// Manager manages all observability components
type Manager struct {
	metrics *metrics.Metrics
	tracer  *tracing.Tracer
	logger  *logging.Logger
}

// Config holds observability configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	JaegerEndpoint string
	LogLevel       string
	LogFormat      string
	LogOutput      string
	// Registerer receives the metrics; nil uses a private registry.
	Registerer prometheus.Registerer
}

// NewManager creates a new observability manager
func NewManager(config Config) (*Manager, error) {
	reg := config.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// Create tracer
	tracer, err := tracing.NewTracer(tracing.Config{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		JaegerEndpoint: config.JaegerEndpoint,
		Environment:    config.Environment,
	})
	if err != nil {
		return nil, err
	}

	// Create logger
	logger, err := logging.NewLogger(logging.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
		Output: config.LogOutput,
	})
	if err != nil {
		return nil, errors.Join(err, tracer.Shutdown(context.Background()))
	}

	return &Manager{
		metrics: metrics.NewMetrics(reg),
		tracer:  tracer,
		logger:  logger,
	}, nil
}

// GetMetrics returns the metrics instance
func (m *Manager) GetMetrics() *metrics.Metrics {
	return m.metrics
}

// GetTracer returns the tracer instance
func (m *Manager) GetTracer() *tracing.Tracer {
	return m.tracer
}

// GetLogger returns the logger instance
func (m *Manager) GetLogger() *logging.Logger {
	return m.logger
}

// Close flushes the tracer. Logger sync errors on terminals are ignored.
func (m *Manager) Close(ctx context.Context) error {
	_ = m.logger.Sync()
	return m.tracer.Shutdown(ctx)
}
