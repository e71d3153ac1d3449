// Package registry accumulates keyed occurrences in scan order and reports
// keys seen more than once.
package registry

import "mbaalint/internal/source"

// Occurrence is one sighting of a key.
type Occurrence struct {
	// Line is the zero-based line index.
	Line int
	Span source.Span
}

// Entry is a key together with every place it occurred.
type Entry[K comparable] struct {
	Key         K
	Occurrences []Occurrence
}

// Lines returns the 1-based line numbers of the entry's occurrences.
func (e Entry[K]) Lines() []int {
	out := make([]int, len(e.Occurrences))
	for i, o := range e.Occurrences {
		out[i] = o.Line + 1
	}
	return out
}

// Registry maps a key to its ordered occurrences. Keys are iterated in
// order of first appearance, so results never depend on map order.
type Registry[K comparable] struct {
	index map[K]int
	items []Entry[K]
}

func New[K comparable]() *Registry[K] {
	return &Registry[K]{index: make(map[K]int)}
}

// Add records an occurrence of key.
func (r *Registry[K]) Add(key K, occ Occurrence) {
	if r.index == nil {
		r.index = make(map[K]int)
	}
	i, ok := r.index[key]
	if !ok {
		i = len(r.items)
		r.index[key] = i
		r.items = append(r.items, Entry[K]{Key: key})
	}
	r.items[i].Occurrences = append(r.items[i].Occurrences, occ)
}

// Has reports whether key was added at least once.
func (r *Registry[K]) Has(key K) bool {
	_, ok := r.index[key]
	return ok
}

// Len is the number of distinct keys.
func (r *Registry[K]) Len() int {
	return len(r.items)
}

// Keys returns distinct keys in first-appearance order.
func (r *Registry[K]) Keys() []K {
	out := make([]K, len(r.items))
	for i := range r.items {
		out[i] = r.items[i].Key
	}
	return out
}

// Get returns the occurrences recorded for key.
func (r *Registry[K]) Get(key K) []Occurrence {
	i, ok := r.index[key]
	if !ok {
		return nil
	}
	return r.items[i].Occurrences
}

// Entries returns every entry in first-appearance order.
func (r *Registry[K]) Entries() []Entry[K] {
	return r.items
}

// Duplicates returns entries with two or more occurrences, in
// first-appearance order.
func (r *Registry[K]) Duplicates() []Entry[K] {
	var out []Entry[K]
	for _, e := range r.items {
		if len(e.Occurrences) > 1 {
			out = append(out, e)
		}
	}
	return out
}
