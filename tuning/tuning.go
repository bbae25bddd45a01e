// Package tuning evaluates graphs over batches of inputs and searches
// parameter values that optimize a summary of the outputs.
package tuning

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/smallnest/lazygraph/graph"
	"github.com/smallnest/lazygraph/log"
)

// BatchEval runs g once per batch item and collects the outputs in order.
// Each item is passed to Run as a single value.
func BatchEval(g *graph.Graph, batch []any) ([]any, error) {
	out := make([]any, len(batch))
	for i, item := range batch {
		v, err := g.Run(item)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// ListSampler yields values in order.
func ListSampler(values []any) iter.Seq[any] {
	return slices.Values(values)
}

// Param identifies a tunable parameter. An empty NodeID selects the only
// node exposing Name.
type Param struct {
	NodeID string
	Name   string
}

func (p Param) String() string {
	if p.NodeID == "" {
		return p.Name
	}
	return p.NodeID + "." + p.Name
}

func (p Param) set(g *graph.Graph, v any) error {
	if p.NodeID == "" {
		return g.SetParamAuto(p.Name, v)
	}
	return g.SetParam(p.NodeID, p.Name, v)
}

// Summary reduces the outputs of one batch evaluation to a score.
type Summary func(outputs []any) (float64, error)

// Trial is one sampled parameter value and its score.
type Trial struct {
	Value any
	Score float64
}

// SingleSearch sets param to each sampled value, evaluates the batch and
// scores the outputs. The parameter keeps the last sampled value afterwards.
func SingleSearch(g *graph.Graph, batch []any, param Param, sampler iter.Seq[any], summary Summary) ([]Trial, error) {
	var trials []Trial
	for v := range sampler {
		if err := param.set(g, v); err != nil {
			return nil, err
		}
		outputs, err := BatchEval(g, batch)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", param, v, err)
		}
		score, err := summary(outputs)
		if err != nil {
			return nil, fmt.Errorf("summarizing %s=%v: %w", param, v, err)
		}
		log.Debug("trial %s=%v scored %g", param, v, score)
		trials = append(trials, Trial{Value: v, Score: score})
	}
	return trials, nil
}

// Best returns the trial with the highest score, the earliest on ties.
func Best(trials []Trial) (Trial, bool) {
	if len(trials) == 0 {
		return Trial{}, false
	}
	best := trials[0]
	for _, t := range trials[1:] {
		if cmp.Compare(t.Score, best.Score) > 0 {
			best = t
		}
	}
	return best, true
}
