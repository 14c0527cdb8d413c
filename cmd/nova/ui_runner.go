package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JamesPatrickGill/nova/internal/stress"
	"github.com/JamesPatrickGill/nova/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// useProgressUI decides whether a stress run gets the live view. Quiet runs
// and machine-readable reports never do; auto means stdout is a terminal.
func useProgressUI(mode uiMode, quiet bool, format string) bool {
	if quiet || format != "pretty" {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type stressOutcome struct {
	results []stress.Result
	err     error
}

func runStressWithUI(ctx context.Context, title string, opts stress.Options) ([]stress.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan stress.Event, 256)
	outcomeCh := make(chan stressOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = stress.ChannelSink{Ch: events}
		res, err := stress.Run(ctx, optsCopy)
		outcomeCh <- stressOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, opts.Agents, opts.Iterations, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// The UI quits early on ctrl+c: stop the agents and keep draining so no
	// worker blocks on a full channel.
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
