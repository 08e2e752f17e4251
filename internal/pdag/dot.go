// Copyright Jei Raju, 2026. All rights reserved.

package pdag

import (
	"bufio"
	"fmt"
	"io"
)

// DOTOptions controls WriteDOT output.
type DOTOptions struct {
	// Label, when set, becomes the graph title.
	Label string
	// Highlight lists node names drawn filled, typically the genes a
	// downstream analysis focuses on.
	Highlight []string
}

// WriteDOT writes the graph in Graphviz DOT form. Undirected edges are
// drawn without arrowheads. Output order is deterministic so renders
// of the same graph diff cleanly.
func (g *Graph) WriteDOT(w io.Writer, opts DOTOptions) error {
	highlight := make(map[string]bool, len(opts.Highlight))
	for _, name := range opts.Highlight {
		highlight[name] = true
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph g {")
	if opts.Label != "" {
		fmt.Fprintf(bw, "  label=%q;\n", opts.Label)
		fmt.Fprintln(bw, "  labelloc=t;")
	}
	fmt.Fprintln(bw, "  node [shape=ellipse, fontsize=11];")
	for _, name := range g.names {
		if highlight[name] {
			fmt.Fprintf(bw, "  %q [style=filled, fillcolor=lightsteelblue];\n", name)
		} else {
			fmt.Fprintf(bw, "  %q;\n", name)
		}
	}
	for _, e := range g.Edges() {
		if e.Directed {
			fmt.Fprintf(bw, "  %q -> %q;\n", g.names[e.From], g.names[e.To])
		} else {
			fmt.Fprintf(bw, "  %q -> %q [dir=none];\n", g.names[e.From], g.names[e.To])
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
