package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"bsharp/internal/buildpipeline"
	"bsharp/internal/driver"
	"bsharp/internal/observ"
)

// errSilent возвращается, когда результат уже напечатан и нужен только код выхода 1.
var errSilent = errors.New("diagnostics reported")

// timingCollector собирает --timings: фазы таймера и длительности стадий по событиям.
type timingCollector struct {
	timer *observ.Timer
	sink  *buildpipeline.CollectSink
}

func newTimingCollector(cmd *cobra.Command, opts *driver.Options) (*timingCollector, error) {
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !showTimings {
		return nil, nil
	}
	tc := &timingCollector{timer: observ.NewTimer(), sink: &buildpipeline.CollectSink{}}
	opts.Timer = tc.timer
	opts.Progress = tc.sink
	return tc, nil
}

func (tc *timingCollector) print(out io.Writer) {
	if tc == nil || out == nil {
		return
	}
	printStageTimings(out, tc.sink.Timings())
	fmt.Fprint(out, tc.timer.Summary())
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
	}
	if total := timings.Sum(buildpipeline.Stages...); total > 0 {
		fmt.Fprintf(out, "files %.1f ms\n", toMillis(total))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
