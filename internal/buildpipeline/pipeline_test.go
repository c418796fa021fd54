package buildpipeline

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestDisplayFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		base + "/b.bs",
		base + "/sub/a.bs",
		base + "/b.bs",
		"",
	}
	got := DisplayFiles(files, base)
	want := []string{"b.bs", "sub/a.bs"}
	if !slices.Equal(got, want) {
		t.Errorf("DisplayFiles = %v, want %v", got, want)
	}
}

func TestFilterUnderRoot(t *testing.T) {
	root := t.TempDir()
	files := []string{root + "/x.bs", root + "/../y.bs"}
	got := FilterUnderRoot(files, root)
	if len(got) != 1 || got[0] != root+"/x.bs" {
		t.Errorf("FilterUnderRoot = %v", got)
	}
}

func TestCollectSinkTimings(t *testing.T) {
	var sink CollectSink
	EmitQueued(&sink, []string{"a.bs", "b.bs"})
	Emit(&sink, Event{File: "a.bs", Stage: StageParse, Status: StatusWorking})
	Emit(&sink, Event{File: "a.bs", Stage: StageParse, Status: StatusDone, Elapsed: 2 * time.Millisecond})
	Emit(&sink, Event{File: "b.bs", Stage: StageParse, Status: StatusError, Err: errors.New("boom"), Elapsed: 3 * time.Millisecond})

	if n := len(sink.Events()); n != 5 {
		t.Fatalf("expected 5 events, got %d", n)
	}
	timings := sink.Timings()
	if !timings.Has(StageParse) || timings.Duration(StageParse) != 5*time.Millisecond {
		t.Errorf("parse duration = %v", timings.Duration(StageParse))
	}
	if timings.Has(StageLex) {
		t.Errorf("lex stage was never finished")
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a.bs", Status: StatusCached})
	if ev := <-ch; !ev.Status.Terminal() {
		t.Errorf("cached must be terminal")
	}
	ChannelSink{}.OnEvent(Event{}) // nil канал не блокирует
}
