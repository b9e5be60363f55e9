package typecheck

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render writes the report as two light-bordered tables, consistent paths
// first. The root path renders as "(root)".
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Consistent data types (%d paths):\n", len(r.Consistent))
	renderSection(w, r.Consistent)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Inconsistent data types (%d paths):\n", len(r.Inconsistent))
	if len(r.Inconsistent) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	renderSection(w, r.Inconsistent)
}

func renderSection(w io.Writer, paths []PathKinds) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Path", "Kinds"})
	for _, pk := range paths {
		rendered := pk.Path.String()
		if rendered == "" {
			rendered = "(root)"
		}
		t.AppendRow(table.Row{rendered, strings.Join(pk.Kinds, ", ")})
	}
	t.Render()
}
