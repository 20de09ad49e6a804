package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used by every span this module starts.
const TracerName = "github.com/osvaldocariege06/Up-ToDo"

// Span attribute keys.
const (
	SpanAttrTool        = "mcp.tool"
	SpanAttrBackend     = "remote.backend"
	SpanAttrOperation   = "remote.operation"
	SpanAttrOwnerDomain = "uptodo.owner_domain"
	SpanAttrTaskID      = "uptodo.task_id"
	SpanAttrCategoryID  = "uptodo.category_id"
)

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartToolSpan starts a server span named tool.<name>.
func StartToolSpan(ctx context.Context, toolName string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "tool."+toolName,
		trace.WithAttributes(attribute.String(SpanAttrTool, toolName)),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartRemoteSpan starts a client span named remote.<backend>.<operation>.
func StartRemoteSpan(ctx context.Context, backend, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		attribute.String(SpanAttrBackend, backend),
		attribute.String(SpanAttrOperation, operation),
	}, attrs...)
	return tracer().Start(ctx, "remote."+backend+"."+operation,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// OwnerAttrs returns the owner's e-mail domain, or nothing for an empty owner.
// The full address is never recorded.
func OwnerAttrs(email string) []attribute.KeyValue {
	if email == "" {
		return nil
	}
	return []attribute.KeyValue{attribute.String(SpanAttrOwnerDomain, OwnerDomain(email))}
}

// TaskAttrs returns the task id attribute, or nothing for an empty id.
func TaskAttrs(id string) []attribute.KeyValue {
	if id == "" {
		return nil
	}
	return []attribute.KeyValue{attribute.String(SpanAttrTaskID, id)}
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
