package dialect

import "mbaalint/internal/source"

// Hint is one line's vote for a dialect. Hints are never reported as
// diagnostics; classify shows the strongest one as the reason.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span
}

// Evidence accumulates hints and their per-dialect totals. A nil *Evidence
// accepts and reports nothing.
type Evidence struct {
	hints     []Hint
	scores    [kindCount]int
	strongest [kindCount]int // index into hints, -1 when none
}

func NewEvidence() *Evidence {
	e := &Evidence{hints: make([]Hint, 0, 16)}
	for i := range e.strongest {
		e.strongest[i] = -1
	}
	return e
}

// Add records h. Hints with a non-positive score or no dialect are kept for
// Hints but do not count towards any total.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
	if h.Score <= 0 || h.Dialect <= Unknown || h.Dialect >= kindCount {
		return
	}
	e.scores[h.Dialect] += h.Score
	if best := e.strongest[h.Dialect]; best < 0 || e.hints[best].Score < h.Score {
		e.strongest[h.Dialect] = len(e.hints) - 1
	}
}

func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Score is the summed score of k.
func (e *Evidence) Score(k Kind) int {
	if e == nil || k <= Unknown || k >= kindCount {
		return 0
	}
	return e.scores[k]
}

// Strongest returns the highest scoring hint for k; ties keep the earliest.
func (e *Evidence) Strongest(k Kind) (Hint, bool) {
	if e == nil || k <= Unknown || k >= kindCount || e.strongest[k] < 0 {
		return Hint{}, false
	}
	return e.hints[e.strongest[k]], true
}
