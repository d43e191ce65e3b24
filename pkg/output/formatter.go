// Package output renders workflow reports for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ritzau/workflow-canvas/pkg/analysis"
	"github.com/ritzau/workflow-canvas/pkg/store"
)

// PrintWorkflowReport prints a saved workflow and its structural report.
func PrintWorkflowReport(w io.Writer, wf store.Workflow, r analysis.Report) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	title := "Workflow: " + wf.Name
	bold.Fprintln(w, title)
	bold.Fprintln(w, strings.Repeat("=", len(title)))
	if !wf.SavedAt.IsZero() {
		fmt.Fprintf(w, "Saved:  %s\n", wf.SavedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Nodes:  %d\n", r.Nodes)
	fmt.Fprintf(w, "Edges:  %d\n", r.Edges)
	fmt.Fprintln(w)

	labels := make(map[string]string, len(wf.Nodes))
	for _, n := range wf.Nodes {
		labels[n.ID] = n.Label
		cyan.Fprintf(w, "  %-12s", n.Type)
		fmt.Fprintf(w, " %s", n.Label)
		if n.HasNote() {
			yellow.Fprintf(w, "  [note: %s]", n.NoteText())
		}
		fmt.Fprintln(w)
	}
	if len(wf.Nodes) > 0 {
		fmt.Fprintln(w)
	}

	name := func(id string) string {
		if l, ok := labels[id]; ok {
			return l
		}
		return id
	}

	if len(r.DanglingEdges) > 0 {
		red.Fprintln(w, "DANGLING EDGES:")
		for _, d := range r.DanglingEdges {
			fmt.Fprintf(w, "  %s missing %s\n", d.EdgeID, strings.Join(d.Missing, ", "))
		}
		fmt.Fprintln(w)
	}
	if len(r.SelfLoops) > 0 {
		yellow.Fprintln(w, "SELF-LOOPS:")
		for _, id := range r.SelfLoops {
			fmt.Fprintf(w, "  %s\n", id)
		}
		fmt.Fprintln(w)
	}
	if len(r.DuplicateEdges) > 0 {
		yellow.Fprintln(w, "DUPLICATE EDGES:")
		for _, group := range r.DuplicateEdges {
			fmt.Fprintf(w, "  %s\n", strings.Join(group, ", "))
		}
		fmt.Fprintln(w)
	}
	if len(r.Cycles) > 0 {
		yellow.Fprintln(w, "CYCLES:")
		for _, cycle := range r.Cycles {
			names := make([]string, 0, len(cycle)+1)
			for _, id := range cycle {
				names = append(names, name(id))
			}
			names = append(names, name(cycle[0]))
			fmt.Fprintf(w, "  %s\n", strings.Join(names, " -> "))
		}
		fmt.Fprintln(w)
	}
	if len(r.Unconnected) > 0 {
		fmt.Fprintf(w, "Unconnected: %d node(s)\n", len(r.Unconnected))
	}

	if r.Clean() {
		green.Fprintln(w, "✓ No structural issues")
	} else {
		red.Fprintln(w, "Structural issues found (the workflow can still be saved)")
	}
}

// PrintWorkflowList prints store summaries, newest first.
func PrintWorkflowList(w io.Writer, list []store.Summary) {
	if len(list) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No saved workflows")
		return
	}
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%-24s %6s %6s  %s\n", "NAME", "NODES", "EDGES", "SAVED")
	for _, s := range list {
		fmt.Fprintf(w, "%-24s %6d %6d  %s\n", s.Name, s.Nodes, s.Edges, s.SavedAt.Format("2006-01-02 15:04"))
	}
}
