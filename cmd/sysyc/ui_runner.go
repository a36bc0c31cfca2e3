package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sysyc/internal/driver"
	"sysyc/internal/ui"
)

type buildOutcome struct {
	results []driver.BuildResult
	err     error
}

func runBuildWithUI(ctx context.Context, title string, files []string, outDir string, jobs int, opts driver.Options) ([]driver.BuildResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.BuildAll(ctx, files, outDir, jobs, opts)
		outcomeCh <- buildOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI мог выйти раньше (ctrl+c, ошибка): дочитываем события, иначе воркеры заблокируются
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
