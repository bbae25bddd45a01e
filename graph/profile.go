package graph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ProfileEntry summarizes the benchmark of one node.
type ProfileEntry struct {
	Node     string
	Variant  string
	Samples  int
	LastEval time.Duration
	LastSelf time.Duration
	MeanSelf time.Duration
}

// Profile is a per-node view of a benchmarked graph, most expensive self time first.
type Profile struct {
	Entries []ProfileEntry
	LastRun time.Duration
}

// Profile collects the benchmark of every patched member node. Nodes without
// samples are listed with zero times.
func (g *Graph) Profile() Profile {
	var p Profile
	if g.bench != nil {
		p.LastRun, _ = g.bench.RunTimes.Last()
	}
	for _, n := range g.nodes {
		if n.bench == nil {
			continue
		}
		e := ProfileEntry{
			Node:    n.Label(),
			Variant: n.variant,
			Samples: n.bench.EvalTimes.Len(),
		}
		e.LastEval, _ = n.bench.EvalTimes.Last()
		e.LastSelf, _ = n.bench.SelfEvalTimes.Last()
		if selfs := n.bench.SelfEvalTimes.Values(); len(selfs) > 0 {
			var sum time.Duration
			for _, s := range selfs {
				sum += s
			}
			e.MeanSelf = sum / time.Duration(len(selfs))
		}
		p.Entries = append(p.Entries, e)
	}
	slices.SortStableFunc(p.Entries, func(a, b ProfileEntry) int {
		return cmp.Compare(b.LastSelf, a.LastSelf)
	})
	return p
}

// SelfTotal sums the last self time of every entry.
func (p Profile) SelfTotal() time.Duration {
	var total time.Duration
	for _, e := range p.Entries {
		total += e.LastSelf
	}
	return total
}

var (
	profileTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	profileHeader = lipgloss.NewStyle().Bold(true)
	profileHot    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	profileMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	profileBox    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#16858E")).
			Padding(0, 1)
)

// Render draws the profile as a boxed terminal table. The node with the
// largest self time is highlighted.
func (p Profile) Render() string {
	width := len("node")
	for _, e := range p.Entries {
		width = max(width, lipgloss.Width(e.Node))
	}
	cell := lipgloss.NewStyle().Width(width + 2)
	num := lipgloss.NewStyle().Width(12).Align(lipgloss.Right)

	row := func(style lipgloss.Style, name string, cols ...string) string {
		var b strings.Builder
		b.WriteString(style.Render(cell.Render(name)))
		for _, c := range cols {
			b.WriteString(style.Render(num.Render(c)))
		}
		return b.String()
	}

	lines := []string{
		profileTitle.Render(fmt.Sprintf("last run %s, self total %s", p.LastRun, p.SelfTotal())),
		row(profileHeader, "node", "samples", "eval", "self", "mean self"),
	}
	for i, e := range p.Entries {
		style := lipgloss.NewStyle()
		switch {
		case i == 0 && e.LastSelf > 0:
			style = profileHot
		case e.Samples == 0:
			style = profileMuted
		}
		lines = append(lines, row(style, e.Node,
			fmt.Sprint(e.Samples),
			e.LastEval.Round(time.Microsecond).String(),
			e.LastSelf.Round(time.Microsecond).String(),
			e.MeanSelf.Round(time.Microsecond).String(),
		))
	}
	return profileBox.Render(strings.Join(lines, "\n"))
}
