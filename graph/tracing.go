package graph

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TraceEvent represents different types of events in graph execution
type TraceEvent string

const (
	// TraceEventGraphStart indicates the start of a graph run
	TraceEventGraphStart TraceEvent = "graph_start"

	// TraceEventGraphEnd indicates the end of a graph run
	TraceEventGraphEnd TraceEvent = "graph_end"

	// TraceEventNodeStart indicates the start of a node evaluation
	TraceEventNodeStart TraceEvent = "node_start"

	// TraceEventNodeEnd indicates a node evaluation completed
	TraceEventNodeEnd TraceEvent = "node_end"

	// TraceEventNodeError indicates a node evaluation failed
	TraceEventNodeError TraceEvent = "node_error"
)

// TraceSpan represents a span of execution with timing and metadata
type TraceSpan struct {
	// ID is a unique identifier for this span
	ID string

	// ParentID is the ID of the enclosing span (empty for root spans)
	ParentID string

	// Event indicates the type of event this span represents
	Event TraceEvent

	// NodeID is the id of the node being evaluated (empty for graph spans)
	NodeID string

	// NodeName is the display label of the node being evaluated
	NodeName string

	// Variant is the kind of node being evaluated
	Variant string

	// StartTime is when this span began
	StartTime time.Time

	// EndTime is when this span completed (zero for ongoing spans)
	EndTime time.Time

	// Duration is the total time taken (calculated when span ends)
	Duration time.Duration

	// Value is the node output or run result (set when the span ends)
	Value any

	// Error contains any error that occurred during execution
	Error error

	// Metadata contains additional key-value pairs for observability
	Metadata map[string]any
}

// Ended reports whether EndSpan has been called on the span.
func (s *TraceSpan) Ended() bool { return !s.EndTime.IsZero() }

// TraceHook defines the interface for trace event handlers. OnEvent is called
// once when a span starts and once when it ends.
type TraceHook interface {
	OnEvent(ctx context.Context, span *TraceSpan)
}

// TraceHookFunc is a function adapter for TraceHook
type TraceHookFunc func(ctx context.Context, span *TraceSpan)

// OnEvent implements the TraceHook interface
func (f TraceHookFunc) OnEvent(ctx context.Context, span *TraceSpan) {
	f(ctx, span)
}

// Tracer records spans for graph runs and node evaluations.
//
// Evaluation is synchronous and depth first, so the tracer keeps a stack of
// open spans: a node forced while another is evaluating becomes its child,
// and nodes evaluated during a run are children of the run span.
type Tracer struct {
	mu    sync.Mutex
	hooks []TraceHook
	spans []*TraceSpan
	open  []*TraceSpan
}

// NewTracer creates a new tracer instance
func NewTracer() *Tracer {
	return &Tracer{}
}

// AddHook registers a new trace hook
func (t *Tracer) AddHook(hook TraceHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook)
}

// Attach traces runs of g and evaluations of its member nodes.
func (t *Tracer) Attach(g *Graph) {
	g.tracer = t
	for _, n := range g.nodes {
		n.RemoveListener(t)
		n.AddListener(t)
	}
}

// Detach stops tracing g.
func (t *Tracer) Detach(g *Graph) {
	if g.tracer == t {
		g.tracer = nil
	}
	for _, n := range g.nodes {
		n.RemoveListener(t)
	}
}

// OnNodeEvent implements NodeListener.
func (t *Tracer) OnNodeEvent(event NodeEvent, n *Node, value any, err error) {
	switch event {
	case NodeEventStart:
		span := newSpan(TraceEventNodeStart, n.Label())
		span.NodeID = n.id
		span.Variant = n.variant
		t.begin(context.Background(), span)
	case NodeEventComplete, NodeEventError:
		t.mu.Lock()
		var span *TraceSpan
		for i := len(t.open) - 1; i >= 0; i-- {
			if t.open[i].NodeID == n.id {
				span = t.open[i]
				break
			}
		}
		t.mu.Unlock()
		if span != nil {
			t.EndSpan(context.Background(), span, value, err)
		}
	}
}

// StartSpan opens a span. Its parent is the span carried by ctx, or else the
// innermost open span.
func (t *Tracer) StartSpan(ctx context.Context, event TraceEvent, nodeName string) *TraceSpan {
	span := newSpan(event, nodeName)
	t.begin(ctx, span)
	return span
}

func newSpan(event TraceEvent, nodeName string) *TraceSpan {
	return &TraceSpan{
		ID:        uuid.NewString(),
		Event:     event,
		NodeName:  nodeName,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
	}
}

func (t *Tracer) begin(ctx context.Context, span *TraceSpan) {
	t.mu.Lock()
	if parent := SpanFromContext(ctx); parent != nil {
		span.ParentID = parent.ID
	} else if len(t.open) > 0 {
		span.ParentID = t.open[len(t.open)-1].ID
	}
	t.spans = append(t.spans, span)
	t.open = append(t.open, span)
	hooks := t.hooks
	t.mu.Unlock()

	ctx = ContextWithSpan(ctx, span)
	for _, hook := range hooks {
		hook.OnEvent(ctx, span)
	}
}

// EndSpan completes a span and turns its start event into the matching end event.
func (t *Tracer) EndSpan(ctx context.Context, span *TraceSpan, value any, err error) {
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Value = value
	span.Error = err

	switch span.Event {
	case TraceEventNodeStart:
		if err != nil {
			span.Event = TraceEventNodeError
		} else {
			span.Event = TraceEventNodeEnd
		}
	case TraceEventGraphStart:
		span.Event = TraceEventGraphEnd
	}

	t.mu.Lock()
	for i := len(t.open) - 1; i >= 0; i-- {
		if t.open[i] == span {
			t.open = append(t.open[:i:i], t.open[i+1:]...)
			break
		}
	}
	hooks := t.hooks
	t.mu.Unlock()

	ctx = ContextWithSpan(ctx, span)
	for _, hook := range hooks {
		hook.OnEvent(ctx, span)
	}
}

func (t *Tracer) startGraph(g *Graph) *TraceSpan {
	span := newSpan(TraceEventGraphStart, "")
	span.Metadata["nodes"] = len(g.nodes)
	span.Metadata["inputs"] = len(g.inputs)
	span.Metadata["outputs"] = len(g.outputs)
	t.begin(context.Background(), span)
	return span
}

// Spans returns the collected spans in start order.
func (t *Tracer) Spans() []*TraceSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*TraceSpan(nil), t.spans...)
}

// Clear removes all collected spans
func (t *Tracer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = nil
	t.open = nil
}

// Context keys for span storage
type contextKey string

const spanContextKey contextKey = "lazygraph_span"

// ContextWithSpan returns a new context with the span stored
func ContextWithSpan(ctx context.Context, span *TraceSpan) context.Context {
	return context.WithValue(ctx, spanContextKey, span)
}

// SpanFromContext extracts a span from context
func SpanFromContext(ctx context.Context) *TraceSpan {
	if span, ok := ctx.Value(spanContextKey).(*TraceSpan); ok {
		return span
	}
	return nil
}
