package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/gqlmodel/internal/eventbus"
	events "github.com/hanpama/gqlmodel/internal/events"
	reqid "github.com/hanpama/gqlmodel/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unregister := Register(tp.Tracer("gqlmodel"))
	return func(ctx context.Context) error {
		unregister()
		return tp.Shutdown(ctx)
	}, nil
}

// Register subscribes span-producing handlers to the global bus. It returns
// a function removing them.
func Register(tracer trace.Tracer) (unregister func()) {
	s := &subscriber{tracer: tracer}
	return s.register()
}

type subscriber struct {
	tracer    trace.Tracer
	unitSpans sync.Map // rid -> trace.Span
	docSpans  sync.Map // docKey -> trace.Span
}

type docKey struct {
	rid, kind, name string
}

func (s *subscriber) register() func() {
	offs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.UnitStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "graphql.compile")
			span.SetAttributes(
				attribute.String("gqlmodel.run_id", rid),
				attribute.Int("graphql.operation_count", e.Operations),
				attribute.Int("graphql.fragment_count", e.Fragments),
			)
			s.unitSpans.Store(rid, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.UnitFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.unitSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.Int("graphql.document_count", e.Documents),
				attribute.Int("graphql.error_count", len(e.Errors)),
				attribute.Int("graphql.warning_count", e.Warnings),
			)
			if len(e.Errors) > 0 {
				span.SetStatus(codes.Error, e.Errors[0].Error())
			}
			span.End()
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.DocumentStart) {
			rid, _ := reqid.FromContext(ctx)
			parent := ctx
			if v, ok := s.unitSpans.Load(rid); ok {
				parent = trace.ContextWithSpan(ctx, v.(trace.Span))
			}
			_, span := s.tracer.Start(parent, "graphql.compile.document")
			span.SetAttributes(
				attribute.String("graphql.document.kind", e.Kind),
				attribute.String("graphql.document.name", e.Name),
			)
			s.docSpans.Store(docKey{rid, e.Kind, e.Name}, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.DocumentFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.docSpans.LoadAndDelete(docKey{rid, e.Kind, e.Name})
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.Bool("gqlmodel.cached", e.Cached),
				attribute.Int("graphql.error_count", len(e.Errors)),
			)
			for _, err := range e.Errors {
				span.RecordError(err)
			}
			if len(e.Errors) > 0 {
				span.SetStatus(codes.Error, e.Errors[0].Error())
			}
			span.End()
		}),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
