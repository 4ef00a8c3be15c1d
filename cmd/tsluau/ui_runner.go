package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tsluau/internal/driver"
	"tsluau/internal/ui"
)

type classifyOutcome struct {
	result *driver.Result
	err    error
}

func runClassifyWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan classifyOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Classify(ctx, opts)
		outcomeCh <- classifyOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
