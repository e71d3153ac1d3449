package check

import (
	"regexp"

	"mbaalint/internal/line"
	"mbaalint/internal/registry"
)

// Scope is the region of a vector document the scanner is in.
type Scope uint8

const (
	// ScopeMain is the headerless region before the first section.
	ScopeMain Scope = iota
	ScopeVectorList
	ScopeBoundList
	ScopeSample
	// ScopeIgnore covers hit-stop and screen-edge blocks; nothing is scanned.
	ScopeIgnore
	// ScopeOther is any other bracketed section.
	ScopeOther
)

func (s Scope) String() string {
	switch s {
	case ScopeMain:
		return "main"
	case ScopeVectorList:
		return "vectorlist"
	case ScopeBoundList:
		return "boundlist"
	case ScopeSample:
		return "sample"
	case ScopeIgnore:
		return "ignore"
	case ScopeOther:
		return "other"
	default:
		return "unknown"
	}
}

var (
	enterVectorList  = regexp.MustCompile(`^\[VectorList\]`)
	enterBoundList   = regexp.MustCompile(`^\[BoundList_\d+\]`)
	enterBoundSample = regexp.MustCompile(`^\[BoundSample_\d+\]`)
	enterSample      = regexp.MustCompile(`^\[Sample_\d+\]`)
	enterHitStop     = regexp.MustCompile(`^\[HitStop\]`)
)

// ScopeForHeader returns the scope a bracketed line opens.
func ScopeForHeader(text string) Scope {
	switch {
	case enterVectorList.MatchString(text):
		return ScopeVectorList
	case enterBoundList.MatchString(text):
		return ScopeBoundList
	case enterBoundSample.MatchString(text), enterSample.MatchString(text):
		return ScopeSample
	case enterHitStop.MatchString(text):
		return ScopeIgnore
	default:
		return ScopeOther
	}
}

// Section is one opened section instance.
type Section struct {
	Scope Scope
	// Text is the trimmed line that opened the section.
	Text string
	// Line is the zero-based opening line, -1 for the main region.
	Line int
}

// SlotDuplicate is a slot ID repeated inside one section instance.
type SlotDuplicate struct {
	Section Section
	Entry   registry.Entry[string]
}

// sectionTracker follows scope transitions and owns the section-local slot
// registry. Every transition closes the current section and clears it.
type sectionTracker struct {
	cur   Section
	slots *idRegistry
	dups  []SlotDuplicate
}

func newSectionTracker() *sectionTracker {
	return &sectionTracker{
		cur:   Section{Scope: ScopeMain, Line: -1},
		slots: registry.New[string](),
	}
}

func (t *sectionTracker) scope() Scope { return t.cur.Scope }

// enter opens the section started by a bracketed line.
func (t *sectionTracker) enter(l line.Line, idx int) {
	t.transition(Section{Scope: ScopeForHeader(l.Text), Text: l.Text, Line: idx})
}

// comment switches to the ignore scope when the comment carries a marker.
func (t *sectionTracker) comment(l line.Line, idx int) bool {
	if !line.IsIgnoreMarker(l.Comment()) {
		return false
	}
	t.transition(Section{Scope: ScopeIgnore, Text: l.Text, Line: idx})
	return true
}

func (t *sectionTracker) slot(id string, occ registry.Occurrence) {
	t.slots.Add(id, occ)
}

func (t *sectionTracker) transition(next Section) {
	t.close()
	t.cur = next
}

func (t *sectionTracker) close() {
	for _, e := range t.slots.Duplicates() {
		t.dups = append(t.dups, SlotDuplicate{Section: t.cur, Entry: e})
	}
	t.slots = registry.New[string]()
}

// finish closes the last section and returns every slot duplicate seen.
func (t *sectionTracker) finish() []SlotDuplicate {
	t.close()
	return t.dups
}
