package trace

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// InflightFile: файл, проход по которому (lex, parse, roundtrip) ещё не закончен.
type InflightFile struct {
	Path    string
	Op      Op
	Started time.Time
}

type inflightSet struct {
	mu    sync.Mutex
	files map[uint64]InflightFile
}

var inflight = &inflightSet{files: make(map[uint64]InflightFile)}

func (s *inflightSet) enter(span *Span) {
	s.mu.Lock()
	s.files[span.id] = InflightFile{Path: span.file, Op: span.op, Started: span.started}
	s.mu.Unlock()
}

func (s *inflightSet) leave(id uint64) {
	s.mu.Lock()
	delete(s.files, id)
	s.mu.Unlock()
}

// Inflight returns the files currently inside a pass, oldest first.
func Inflight() []InflightFile {
	inflight.mu.Lock()
	out := make([]InflightFile, 0, len(inflight.files))
	for _, f := range inflight.files {
		out = append(out, f)
	}
	inflight.mu.Unlock()
	slices.SortFunc(out, func(a, b InflightFile) int {
		if c := a.Started.Compare(b.Started); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// describeInflight: "parse a.bs 1.2s, lex b.bs 40ms" или "idle".
func describeInflight(now time.Time, files []InflightFile) string {
	if len(files) == 0 {
		return "idle"
	}
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("%s %s %s", f.Op, f.Path, now.Sub(f.Started).Round(time.Millisecond)))
	}
	return strings.Join(parts, ", ")
}

// Heartbeat periodically reports which files are still being processed.
// Один и тот же файл в нескольких heartbeat подряд - признак зависшего разбора.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var beats uint64
	for {
		select {
		case now := <-ticker.C:
			beats++
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  OpHeartbeat.Scope(),
				Op:     OpHeartbeat,
				GID:    getGoroutineID(),
				Detail: fmt.Sprintf("#%d %s", beats, describeInflight(now, Inflight())),
			})
		case <-h.stopCh:
			return
		}
	}
}

// Stop ends the heartbeat goroutine and waits for it; repeated calls are no-ops.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	<-h.done
}
