package main

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"bsharp/internal/buildpipeline"
	"bsharp/internal/driver"
	"bsharp/internal/source"
	"bsharp/internal/ui"
)

type parseOutcome struct {
	fs      *source.FileSet
	results []driver.FileResult
	err     error
}

// runFiles разбирает in.files; с useTUI прогресс рисуется в stderr,
// stdout остаётся под вывод команды.
func runFiles(ctx context.Context, title string, in inputSet, opts driver.Options, useTUI bool) (*source.FileSet, []driver.FileResult, error) {
	if !useTUI {
		return driver.ParseFiles(ctx, in.baseDir, in.files, opts)
	}

	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan parseOutcome, 1)

	base := in.baseDir
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	// модель прогресса знает файлы по отображаемым путям
	out := buildpipeline.ChannelSink{Ch: events}
	prev := opts.Progress
	sink := buildpipeline.FuncSink(func(ev buildpipeline.Event) {
		buildpipeline.Emit(prev, ev)
		if ev.File != "" {
			ev.File = buildpipeline.DisplayPath(ev.File, base)
		}
		out.OnEvent(ev)
	})

	go func() {
		runOpts := opts
		runOpts.Progress = sink
		fs, results, err := driver.ParseFiles(ctx, in.baseDir, in.files, runOpts)
		outcomeCh <- parseOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, buildpipeline.DisplayFiles(in.files, in.baseDir), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// после Ctrl+C модель больше не читает события
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
