// Package observ records wall-clock timings of a check run.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed stage of a run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Items int
}

// Timer collects phases. It is safe for concurrent use; phases are kept in
// the order they were started.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	phases []Phase
}

func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Begin opens a phase and returns its handle for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End closes the phase opened by Begin. items is how many files or lines
// the phase processed; unknown handles are ignored.
func (t *Timer) End(idx, items int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Items = items
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// PhaseReport is the serialisable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Items      int     `json:"items,omitempty"`
}

// Report is a timing summary; TotalMS is the sum of the phases, not the
// wall time between the first Begin and the last End.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	phases := t.Phases()
	if len(phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, 0, len(phases))}
	var total time.Duration
	for _, p := range phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Items: p.Items})
	}
	r.TotalMS = millis(total)
	return r
}

// String renders one line per phase followed by the total.
func (r Report) String() string {
	var b strings.Builder
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "%-8s %7.2f ms", p.Name, p.DurationMS)
		if p.Items > 0 {
			fmt.Fprintf(&b, " (%d)", p.Items)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%-8s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
