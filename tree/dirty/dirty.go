// Package dirty tracks which row positions of a tree store were touched by
// mutations.
//
// The tracker keeps a list of raw [pos, pos+len) ranges and coalesces them
// into sorted, non-overlapping ranges on demand. Positions are recorded in
// the coordinates current at the moment of each mutation, so they describe
// where work happened rather than where the rows end up.
package dirty

import "sort"

// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
const defaultRangeCapacity = 64

// Range is a run of touched row positions.
type Range struct {
	Pos int // first position
	Len int // number of rows
}

// End returns the position just past the range.
func (r Range) End() int { return r.Pos + r.Len }

// Tracker accumulates touched ranges.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges []Range
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ranges: make([]Range, 0, defaultRangeCapacity),
	}
}

// Add records a touched range. Zero or negative lengths are recorded as a
// single row so that removals still leave a mark at their position.
func (t *Tracker) Add(pos, n int) {
	if n < 1 {
		n = 1
	}
	t.ranges = append(t.ranges, Range{Pos: pos, Len: n})
}

// Len returns the number of raw ranges recorded.
func (t *Tracker) Len() int { return len(t.ranges) }

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Raw returns a copy of the uncoalesced ranges in recording order.
func (t *Tracker) Raw() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// Ranges returns the coalesced ranges: sorted by position with overlapping
// and adjacent ranges merged.
func (t *Tracker) Ranges() []Range {
	return coalesce(t.ranges)
}

// Rows returns the number of distinct positions covered by the coalesced ranges.
func (t *Tracker) Rows() int {
	total := 0
	for _, r := range t.Ranges() {
		total += r.Len
	}
	return total
}

func coalesce(in []Range) []Range {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Range, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Pos < sorted[j].Pos
	})

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Pos <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Pos
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
