package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"todohl/internal/driver"
	"todohl/internal/source"
	"todohl/internal/ui"
)

type scanOutcome struct {
	fileSet *source.FileSet
	results []driver.FileResult
	err     error
}

// runScanWithUI scans on a worker goroutine while a progress model renders
// the driver's events on out.
func runScanWithUI(ctx context.Context, out io.Writer, baseDir string, paths []string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fileSet, results, err := driver.ScanFiles(ctx, baseDir, paths, optsCopy)
		outcomeCh <- scanOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("scanning", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the model may quit early (ctrl+c); keep draining so the worker never
	// blocks on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
