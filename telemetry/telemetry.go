// Package telemetry exports graph traces to OpenTelemetry.
//
// A Hook is installed on a graph.Tracer. Every node evaluation becomes a
// "lazygraph.node.eval" span nested under the span of the node that forced it,
// and every Graph.Run a "lazygraph.graph.run" span. Node evaluations are also
// counted and timed:
//
//	lazygraph_node_eval_duration_seconds  histogram
//	lazygraph_node_eval_total             counter
//	lazygraph_node_eval_errors_total      counter
//
// All instruments carry the node variant as the "lazygraph.variant" attribute.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/smallnest/lazygraph/graph"
	"github.com/smallnest/lazygraph/log"
)

const instrumentationName = "github.com/smallnest/lazygraph"

// Span names.
const (
	SpanNodeEval = "lazygraph.node.eval"
	SpanGraphRun = "lazygraph.graph.run"
)

// Attribute keys.
const (
	AttrNodeID   = attribute.Key("lazygraph.node.id")
	AttrNodeName = attribute.Key("lazygraph.node.name")
	AttrVariant  = attribute.Key("lazygraph.variant")
	AttrNodes    = attribute.Key("lazygraph.graph.nodes")
	AttrInputs   = attribute.Key("lazygraph.graph.inputs")
	AttrOutputs  = attribute.Key("lazygraph.graph.outputs")
)

// Options configures a Hook. Zero values use the global providers.
type Options struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Option mutates Options.
type Option func(*Options)

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		o.TracerProvider = tp
	}
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *Options) {
		o.MeterProvider = mp
	}
}

type liveSpan struct {
	ctx  context.Context
	span trace.Span
}

// Hook is a graph.TraceHook that mirrors lazygraph spans as OpenTelemetry
// spans and metrics.
type Hook struct {
	tracer trace.Tracer

	evalDuration metric.Float64Histogram
	evalTotal    metric.Int64Counter
	evalErrors   metric.Int64Counter

	mu   sync.Mutex
	live map[string]liveSpan
}

var _ graph.TraceHook = (*Hook)(nil)

// NewHook creates a hook and registers its instruments.
func NewHook(opts ...Option) (*Hook, error) {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = otel.GetMeterProvider()
	}

	meter := o.MeterProvider.Meter(instrumentationName)
	h := &Hook{
		tracer: o.TracerProvider.Tracer(instrumentationName),
		live:   make(map[string]liveSpan),
	}

	var err error
	h.evalDuration, err = meter.Float64Histogram("lazygraph_node_eval_duration_seconds",
		metric.WithDescription("Time spent evaluating each node, including forced predecessors"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	h.evalTotal, err = meter.Int64Counter("lazygraph_node_eval_total",
		metric.WithDescription("Number of node evaluations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation counter: %w", err)
	}

	h.evalErrors, err = meter.Int64Counter("lazygraph_node_eval_errors_total",
		metric.WithDescription("Number of failed node evaluations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	return h, nil
}

// Install creates a tracer carrying a new hook and attaches it to g.
func Install(g *graph.Graph, opts ...Option) (*graph.Tracer, error) {
	h, err := NewHook(opts...)
	if err != nil {
		return nil, err
	}
	t := graph.NewTracer()
	t.AddHook(h)
	t.Attach(g)
	return t, nil
}

// OnEvent implements graph.TraceHook.
func (h *Hook) OnEvent(ctx context.Context, span *graph.TraceSpan) {
	switch span.Event {
	case graph.TraceEventGraphStart, graph.TraceEventNodeStart:
		h.start(ctx, span)
	case graph.TraceEventGraphEnd, graph.TraceEventNodeEnd, graph.TraceEventNodeError:
		h.end(ctx, span)
	}
}

func (h *Hook) start(ctx context.Context, span *graph.TraceSpan) {
	h.mu.Lock()
	if parent, ok := h.live[span.ParentID]; ok {
		ctx = parent.ctx
	}
	h.mu.Unlock()

	name := SpanNodeEval
	attrs := []attribute.KeyValue{}
	if span.Event == graph.TraceEventGraphStart {
		name = SpanGraphRun
		attrs = append(attrs,
			AttrNodes.Int(metaInt(span, "nodes")),
			AttrInputs.Int(metaInt(span, "inputs")),
			AttrOutputs.Int(metaInt(span, "outputs")),
		)
	} else {
		attrs = append(attrs,
			AttrNodeID.String(span.NodeID),
			AttrNodeName.String(span.NodeName),
			AttrVariant.String(span.Variant),
		)
	}

	ctx, otelSpan := h.tracer.Start(ctx, name,
		trace.WithTimestamp(span.StartTime),
		trace.WithAttributes(attrs...),
	)

	h.mu.Lock()
	h.live[span.ID] = liveSpan{ctx: ctx, span: otelSpan}
	h.mu.Unlock()
}

func (h *Hook) end(ctx context.Context, span *graph.TraceSpan) {
	h.mu.Lock()
	live, ok := h.live[span.ID]
	delete(h.live, span.ID)
	h.mu.Unlock()
	if !ok {
		log.Warn("telemetry: span %s ended without a start", span.ID)
		return
	}

	if span.Error != nil {
		live.span.RecordError(span.Error)
		live.span.SetStatus(codes.Error, span.Error.Error())
	} else {
		live.span.SetStatus(codes.Ok, "")
	}
	live.span.End(trace.WithTimestamp(span.EndTime))

	if span.Event == graph.TraceEventGraphEnd {
		return
	}

	attrs := metric.WithAttributes(AttrVariant.String(span.Variant))
	h.evalDuration.Record(ctx, span.Duration.Seconds(), attrs)
	h.evalTotal.Add(ctx, 1, attrs)
	if span.Error != nil {
		h.evalErrors.Add(ctx, 1, attrs)
	}
}

func metaInt(span *graph.TraceSpan, key string) int {
	v, _ := span.Metadata[key].(int)
	return v
}
