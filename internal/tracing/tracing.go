package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerzap "github.com/uber/jaeger-client-go/log/zap"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/logger"
)

type config interface {
	Agent() string
	SamplingRate() float64
	Enabled() bool
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

// Init registers a Jaeger tracer as the global opentracing tracer.
// With tracing disabled the global no-op tracer stays in place.
func Init(serviceName string, cfg config) (io.Closer, error) {
	if !cfg.Enabled() {
		logger.Info("tracing disabled")
		return nopCloser{}, nil
	}

	jcfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeProbabilistic,
			Param: cfg.SamplingRate(),
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.Agent(),
		},
	}
	tracer, closer, err := jcfg.NewTracer(jaegercfg.Logger(jaegerzap.NewLogger(logger.L())))
	if err != nil {
		return nil, errors.Wrap(err, "init jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)
	logger.Info("tracing enabled", zap.String("agent", cfg.Agent()))
	return closer, nil
}
