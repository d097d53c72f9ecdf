package experiment

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "mabsim.experiment"

type tracer struct {
	tracer trace.Tracer
}

func newTracer(tp trace.TracerProvider) *tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &tracer{tracer: tp.Tracer(tracerName)}
}

func (t *tracer) startSweep(ctx context.Context, parameter string, values, horizon, repeats int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "mabsim.sweep",
		trace.WithAttributes(
			attribute.String("sweep.parameter", parameter),
			attribute.Int("sweep.values", values),
			attribute.Int("sweep.horizon", horizon),
			attribute.Int("sweep.repeats", repeats),
		),
	)
}

func (t *tracer) startPoint(ctx context.Context, value float64) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "mabsim.sweep.point",
		trace.WithAttributes(attribute.Float64("sweep.value", value)),
	)
}

func endSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attrs...)
	span.End()
}
