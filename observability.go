package elector

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/internal/logging"
	"github.com/arloliu/elector/internal/metrics"
)

// NewPrometheusMetrics returns a MetricsCollector backed by Prometheus.
//
// Collectors are registered with reg on first use. A nil reg uses
// prometheus.DefaultRegisterer; an empty namespace uses "elector".
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}

// NewNopMetrics returns a MetricsCollector that discards everything.
func NewNopMetrics() MetricsCollector {
	return metrics.NewNop()
}

// NewSlogLogger adapts a *slog.Logger. A nil logger uses slog.Default().
func NewSlogLogger(l *slog.Logger) Logger {
	return logging.NewSlog(l)
}

// NewZapLogger adapts a *zap.SugaredLogger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return logging.NewZapAdapter(l)
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return logger.NewNop()
}
