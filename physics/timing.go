package physics

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// emitInterval is how much wall time accumulates between diagnostic reports.
const emitInterval = time.Second

// StageTimer accumulates per-stage wall time across frames and emits the
// per-frame averages through its sink roughly once per second, then resets.
// It is purely diagnostic: a nil *StageTimer is valid and disables all
// measurement, and nothing in the numeric path depends on its output.
type StageTimer struct {
	sink     func(format string, args ...any)
	totals   map[string]time.Duration
	order    []string
	frames   int
	lastEmit time.Time
	started  time.Time
}

// NewStageTimer returns a timer reporting through sink; a nil sink reports
// through log.Printf.
func NewStageTimer(sink func(format string, args ...any)) *StageTimer {
	if sink == nil {
		sink = log.Printf
	}
	return &StageTimer{
		sink:     sink,
		totals:   make(map[string]time.Duration),
		lastEmit: time.Now(),
	}
}

// Begin marks the start of a stage.
func (t *StageTimer) Begin() {
	if t == nil {
		return
	}
	t.started = time.Now()
}

// End charges the time since Begin to the named stage. Stages may repeat
// within a frame; their times accumulate.
func (t *StageTimer) End(stage string) {
	if t == nil {
		return
	}
	if _, ok := t.totals[stage]; !ok {
		t.order = append(t.order, stage)
	}
	t.totals[stage] += time.Since(t.started)
}

// FrameDone marks a frame boundary. Once enough wall time has passed it
// reports the average per-frame stage times since the last report and resets
// the accumulators.
func (t *StageTimer) FrameDone() {
	if t == nil {
		return
	}
	t.frames++
	if time.Since(t.lastEmit) < emitInterval {
		return
	}

	stages := make([]string, len(t.order))
	copy(stages, t.order)
	sort.Strings(stages)

	var b strings.Builder
	for i, stage := range stages {
		if i > 0 {
			b.WriteString("  ")
		}
		avg := t.totals[stage] / time.Duration(t.frames)
		fmt.Fprintf(&b, "%s: %v", stage, avg.Round(time.Microsecond))
		t.totals[stage] = 0
	}
	t.sink("frame avg over %d frames: %s", t.frames, b.String())

	t.frames = 0
	t.lastEmit = time.Now()
}
