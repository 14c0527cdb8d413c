package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JamesPatrickGill/nova/internal/observ"
	"github.com/JamesPatrickGill/nova/internal/stress"
)

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	headerColor = color.New(color.Bold)
)

// counts prints integers with locale digit grouping.
var counts = message.NewPrinter(language.English)

type column struct {
	title string
	right bool
}

// table renders aligned columns. Cell widths ignore color escapes and count
// wide runes twice.
type table struct {
	cols []column
	rows [][]string
}

func (t *table) add(cells ...string) { t.rows = append(t.rows, cells) }

func (t *table) render(out io.Writer) {
	widths := make([]int, len(t.cols))
	for i, c := range t.cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	header := make([]string, len(t.cols))
	for i, c := range t.cols {
		header[i] = pad(c.title, widths[i], c.right)
	}
	fmt.Fprintln(out, headerColor.Sprint(strings.Join(header, "  ")))
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i], t.cols[i].right)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func renderStressPretty(out io.Writer, opts stress.Options, results []stress.Result) {
	fmt.Fprintf(out, "seed %d, gc threshold %s, verify %t\n\n",
		opts.Seed, counts.Sprintf("%d", opts.Heap.GCThreshold), opts.Verify)

	t := &table{cols: []column{
		{title: "agent"}, {title: "status"},
		{title: "iters", right: true}, {title: "cycles", right: true},
		{title: "allocs", right: true}, {title: "freed", right: true},
		{title: "peak", right: true}, {title: "thrown", right: true},
		{title: "time", right: true},
	}}
	failed := 0
	for _, r := range results {
		status := okColor.Sprint("ok")
		if r.Err != nil {
			status = failColor.Sprint("FAIL")
			failed++
		}
		t.add(
			fmt.Sprint(r.Agent), status,
			counts.Sprintf("%d", r.Iterations), counts.Sprintf("%d", r.Collections),
			counts.Sprintf("%d", r.Allocations), counts.Sprintf("%d", r.Freed),
			counts.Sprintf("%d", r.PeakLive), counts.Sprintf("%d", r.Thrown),
			r.Elapsed.Round(time.Millisecond).String(),
		)
	}
	t.render(out)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "\n%s agent %d: %v", failColor.Sprint("error:"), r.Agent, r.Err)
		}
	}
	if failed > 0 {
		fmt.Fprintf(out, "\n%s\n", failColor.Sprintf("%d of %d agents failed", failed, len(results)))
		return
	}
	fmt.Fprintf(out, "\n%s\n", okColor.Sprintf("%d agents passed", len(results)))
}

type stressAgentPayload struct {
	Agent       int           `json:"agent"`
	OK          bool          `json:"ok"`
	Error       string        `json:"error,omitempty"`
	Iterations  int           `json:"iterations"`
	Collections int           `json:"collections"`
	Allocations uint64        `json:"allocations"`
	Freed       int           `json:"freed"`
	PeakLive    int           `json:"peak_live"`
	Thrown      int           `json:"thrown"`
	ElapsedMS   float64       `json:"elapsed_ms"`
	Phases      observ.Report `json:"phases"`
}

type stressPayload struct {
	Seed        int64                `json:"seed"`
	GCThreshold int                  `json:"gc_threshold"`
	Verify      bool                 `json:"verify"`
	Agents      []stressAgentPayload `json:"agents"`
}

func renderStressJSON(out io.Writer, opts stress.Options, results []stress.Result) error {
	payload := stressPayload{
		Seed:        opts.Seed,
		GCThreshold: opts.Heap.GCThreshold,
		Verify:      opts.Verify,
		Agents:      make([]stressAgentPayload, 0, len(results)),
	}
	for _, r := range results {
		p := stressAgentPayload{
			Agent:       r.Agent,
			OK:          r.Err == nil,
			Iterations:  r.Iterations,
			Collections: r.Collections,
			Allocations: r.Allocations,
			Freed:       r.Freed,
			PeakLive:    r.PeakLive,
			Thrown:      r.Thrown,
			ElapsedMS:   float64(r.Elapsed) / float64(time.Millisecond),
			Phases:      r.Phases,
		}
		if r.Err != nil {
			p.Error = r.Err.Error()
		}
		payload.Agents = append(payload.Agents, p)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func collectionPhases(results []stress.Result) observ.Report {
	var total observ.Report
	for _, r := range results {
		total.Accumulate(r.Phases)
	}
	return total
}
