// Package paths derives an asteroid's planetary transitions from its
// close-approach events.
//
// Derivation is a pure function of its input: events are sorted
// chronologically (stable, so same-day events keep their upstream order),
// every adjacent pair with different orbiting bodies becomes a PathSegment,
// and segments not lying entirely inside the requested window are dropped.
package paths

import (
	"sort"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
)

// Derive returns the transitions described by events that fall within
// window, in chronological order. It never returns nil and never modifies
// events.
func Derive(events []asteroid.CloseApproachEvent, window asteroid.DateWindow) []asteroid.PathSegment {
	return FilterWindow(BuildSegments(SortEvents(events)), window)
}

// SortEvents returns a chronologically ascending copy of events. Events on
// the same date keep their relative order.
func SortEvents(events []asteroid.CloseApproachEvent) []asteroid.CloseApproachEvent {
	sorted := make([]asteroid.CloseApproachEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// BuildSegments scans sorted events pairwise and emits a segment for every
// adjacent pair whose orbiting bodies differ. Fewer than two events yield no
// segments.
func BuildSegments(sorted []asteroid.CloseApproachEvent) []asteroid.PathSegment {
	segments := make([]asteroid.PathSegment, 0)
	for i := 0; i+1 < len(sorted); i++ {
		current, next := sorted[i], sorted[i+1]
		if current.OrbitingBody == next.OrbitingBody {
			continue
		}
		segments = append(segments, asteroid.PathSegment{
			FromBody: current.OrbitingBody,
			ToBody:   next.OrbitingBody,
			FromDate: current.Date,
			ToDate:   next.Date,
		})
	}
	return segments
}

// FilterWindow keeps the segments contained in window, preserving order.
func FilterWindow(segments []asteroid.PathSegment, window asteroid.DateWindow) []asteroid.PathSegment {
	kept := make([]asteroid.PathSegment, 0, len(segments))
	for _, s := range segments {
		if window.Contains(s) {
			kept = append(kept, s)
		}
	}
	return kept
}
