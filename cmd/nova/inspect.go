package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JamesPatrickGill/nova/internal/snapshot"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot>...",
	Short: "Summarize heap snapshots written by stress --snapshot",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("dump", false, "print the grouped heap dump")
	inspectCmd.Flags().Bool("roots", false, "list every root")
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type inspectPayload struct {
	Path    string           `json:"path"`
	Label   string           `json:"label"`
	Created time.Time        `json:"created"`
	Summary snapshot.Summary `json:"summary"`
	Stats   vm.HeapStats     `json:"stats"`
	Last    vm.CollectStats  `json:"last_collection"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	showDump, _ := cmd.Flags().GetBool("dump")
	showRoots, _ := cmd.Flags().GetBool("roots")
	out := cmd.OutOrStdout()

	payloads := make([]inspectPayload, 0, len(args))
	for i, path := range args {
		snap, err := snapshot.Read(path)
		if err != nil {
			return err
		}
		if format == "json" {
			payloads = append(payloads, inspectPayload{
				Path:    path,
				Label:   snap.Label,
				Created: snap.Created,
				Summary: snap.Summarize(),
				Stats:   snap.Stats,
				Last:    snap.Last,
			})
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		renderSnapshot(out, path, snap, showRoots, showDump)
	}
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payloads)
	}
	return nil
}

func renderSnapshot(out io.Writer, path string, snap *snapshot.Snapshot, showRoots, showDump bool) {
	sum := snap.Summarize()
	fmt.Fprintf(out, "%s %s (%s)\n", headerColor.Sprint(snap.Label), path, snap.Created.Format(time.RFC3339))
	fmt.Fprintf(out, "%s nodes, %s edges, %s roots, %s allocations, %s collections\n\n",
		counts.Sprintf("%d", sum.Nodes), counts.Sprintf("%d", sum.Edges), counts.Sprintf("%d", sum.Roots),
		counts.Sprintf("%d", snap.Stats.Allocations), counts.Sprintf("%d", snap.Stats.Collections))

	t := &table{cols: []column{
		{title: "kind"},
		{title: "slots", right: true}, {title: "live", right: true},
		{title: "allocs", right: true}, {title: "unreachable", right: true},
	}}
	unreachable := make(map[string]int, len(sum.Kinds))
	for _, k := range sum.Kinds {
		unreachable[k.Kind] = k.Unreachable
	}
	for _, k := range snap.Stats.Kinds {
		garbage := counts.Sprintf("%d", unreachable[k.Kind])
		if unreachable[k.Kind] > 0 {
			garbage = failColor.Sprint(garbage)
		}
		t.add(k.Kind, counts.Sprintf("%d", k.Slots), counts.Sprintf("%d", k.Live),
			counts.Sprintf("%d", k.Allocs), garbage)
	}
	t.render(out)

	if last := snap.Last; last.Cycle > 0 {
		fmt.Fprintf(out, "\nlast collection: cycle %d (%s), freed %s, live %s, %s\n",
			last.Cycle, last.Trigger, counts.Sprintf("%d", last.Freed), counts.Sprintf("%d", last.Live()),
			last.Duration.Round(time.Microsecond))
		for _, p := range last.Phases.Phases {
			fmt.Fprintf(out, "  %-8s %8.3f ms  %s\n", p.Name, p.DurationMS, p.Note)
		}
	}

	if showRoots {
		width := terminalWidth()
		fmt.Fprintln(out, "\nroots:")
		for _, r := range snap.Graph.Roots {
			line := fmt.Sprintf("  %-24s -> %s", r.Name, r.To)
			fmt.Fprintln(out, runewidth.Truncate(line, width, "..."))
		}
	}
	if showDump {
		fmt.Fprintln(out, "\ndump:")
		fmt.Fprint(out, snap.Dump)
	}
}

func terminalWidth() int {
	if !isTerminal(os.Stdout) {
		return 120
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 120
	}
	return w
}
