package main

import (
	"fmt"
	"io"

	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/solver"
	"github.com/spf13/cobra"
)

var showOffsets int

func init() {
	layoutCmd.Flags().IntVar(&showOffsets, "offsets", 0, "Print the first N entries of the packed state")
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the local topology and packed state size",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, m, err := setup()
		if err != nil {
			return err
		}
		return printLayout(cmd.OutOrStdout(), m, showOffsets)
	},
}

func neighbour(dest int) string {
	if dest == mesh.NoNeighbor {
		return "boundary"
	}
	return fmt.Sprintf("rank %d", dest)
}

func printLayout(w io.Writer, m *mesh.Mesh, nOffsets int) error {
	p := solver.NewPacker(m)
	if err := newDriftModel(m).register(p); err != nil {
		return err
	}
	if err := p.Verify(); err != nil {
		return fmt.Errorf("layout check failed: %w", err)
	}

	t := m.Topology
	fmt.Fprintln(w, m.String())
	fmt.Fprintf(w, "inner x: %s\n", neighbour(t.InnerX))
	fmt.Fprintf(w, "outer x: %s\n", neighbour(t.OuterX))
	fmt.Fprintf(w, "lower y: jx < %d %s, jx >= %d %s\n",
		t.LowerYSplit, neighbour(t.LowerYInner), t.LowerYSplit, neighbour(t.LowerYOuter))
	fmt.Fprintf(w, "upper y: jx < %d %s, jx >= %d %s\n",
		t.UpperYSplit, neighbour(t.UpperYInner), t.UpperYSplit, neighbour(t.UpperYOuter))
	fmt.Fprintf(w, "variables: %d 3D, %d 2D\n", p.N3D(), p.N2D())
	fmt.Fprintf(w, "local state size: %d\n", p.LocalSize())

	for i, ix := range p.Offsets() {
		if i >= nOffsets {
			break
		}
		fmt.Fprintf(w, "%6d %s\n", i, ix)
	}
	return nil
}
