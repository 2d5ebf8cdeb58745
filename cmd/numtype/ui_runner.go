package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"numtype/internal/driver"
	"numtype/internal/ui"
)

// runCheckWithUI runs Check in the background while a progress view
// consumes its events. The view exits when the event channel closes.
func runCheckWithUI(ctx context.Context, title string, files []string, s *driver.Session, opts driver.Options) (*driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := checkInBackground(ctx, s, files, opts, events)

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so the checker never blocks on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

func checkInBackground(ctx context.Context, s *driver.Session, files []string, opts driver.Options, events chan<- driver.Event) <-chan checkOutcome {
	outcomeCh := make(chan checkOutcome, 1)
	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := s.Check(ctx, files, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()
	return outcomeCh
}
