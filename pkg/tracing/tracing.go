// Package tracing настраивает OpenTelemetry трассировку сервисов.
package tracing

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// EndpointEnv адрес OTLP коллектора, без него спаны никуда не экспортируются
const EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// ShutdownFunc сбрасывает буфер спанов и закрывает экспортер
type ShutdownFunc func(ctx context.Context) error

// Init регистрирует глобальный TracerProvider для сервиса.
// Если EndpointEnv не задан, провайдер работает без экспортера.
func Init(ctx context.Context, serviceName string) (ShutdownFunc, error) {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if os.Getenv(EndpointEnv) != "" {
		// endpoint, заголовки и таймауты экспортер читает из OTEL_EXPORTER_OTLP_*
		exporter, err := otlptracehttp.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer именованный трейсер глобального провайдера
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Finish записывает ошибку в спан и закрывает его
func Finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Inject кладет контекст трассировки в заголовки исходящего запроса
func Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, carrier)
}
