package graph

import (
	"fmt"
	"time"

	"github.com/smallnest/lazygraph/config"
	"github.com/smallnest/lazygraph/log"
)

// Benchmark holds the timing samples of one node.
//
// EvalTimes records the wall time of every evaluation, including predecessors
// it forced. SelfEvalTimes subtracts the time of those forced predecessors,
// leaving the cost of the node's own computation. The attribution assumes
// predecessors are evaluated synchronously, depth first, just before the
// node's own logic, which is how Value works.
type Benchmark struct {
	EvalTimes     *Ring[time.Duration]
	SelfEvalTimes *Ring[time.Duration]
}

// GraphBenchmark holds the wall time of each run of a graph.
type GraphBenchmark struct {
	RunTimes *Ring[time.Duration]
}

func newBenchmark(capacity int) *Benchmark {
	return &Benchmark{
		EvalTimes:     NewRing[time.Duration](capacity),
		SelfEvalTimes: NewRing[time.Duration](capacity),
	}
}

func benchmarkCapacity(capacity int) int {
	if capacity > 0 {
		return capacity
	}
	return config.Default().BenchmarkCapacity
}

// PatchNode starts recording timings for n. A capacity <= 0 uses the
// configured default.
func PatchNode(n *Node, capacity int) error {
	if n.bench != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyBenchmarked, n.Label())
	}
	n.bench = newBenchmark(benchmarkCapacity(capacity))
	return nil
}

// PatchGraph starts recording run times for g and timings for each of its
// nodes. Nodes already patched, for instance through another graph sharing
// them, keep their existing samples.
func PatchGraph(g *Graph, capacity int) error {
	if g.bench != nil {
		return fmt.Errorf("%w: graph", ErrAlreadyBenchmarked)
	}
	capacity = benchmarkCapacity(capacity)
	for _, n := range g.nodes {
		if n.bench == nil {
			n.bench = newBenchmark(capacity)
		}
	}
	g.bench = &GraphBenchmark{RunTimes: NewRing[time.Duration](capacity)}
	log.Debug("benchmarking %d nodes with capacity %d", len(g.nodes), capacity)
	return nil
}

// Benchmark returns the node's timings, or nil if it was never patched.
func (n *Node) Benchmark() *Benchmark { return n.bench }

// Benchmark returns the graph's run timings, or nil if it was never patched.
func (g *Graph) Benchmark() *GraphBenchmark { return g.bench }

func (b *Benchmark) measure(n *Node) (any, error) {
	start := time.Now()
	out, fresh, err := n.evaluate()
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	self := elapsed
	for _, p := range fresh {
		if p.bench == nil {
			continue
		}
		if last, ok := p.bench.EvalTimes.Last(); ok {
			self -= last
		}
	}
	b.EvalTimes.Push(elapsed)
	b.SelfEvalTimes.Push(max(self, 0))
	return out, nil
}
