package asteroid

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned when a window's From is after its To.
var ErrInvalidWindow = errors.New("fromDate cannot be greater than toDate")

// CloseApproachEvent is a single close approach of an asteroid to a body.
type CloseApproachEvent struct {
	Date         Date   `json:"date"`
	OrbitingBody string `json:"orbitingBody"`
}

// ApproachRecord is the raw close-approach data of one asteroid as served by
// the upstream feed. Events are in no particular order.
type ApproachRecord struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Events []CloseApproachEvent `json:"events"`
}

// HasEvents reports whether the record carries at least one event.
// A nil record has none.
func (r *ApproachRecord) HasEvents() bool {
	return r != nil && len(r.Events) > 0
}

// Clone returns a deep copy of r. Clone of nil is nil.
func (r *ApproachRecord) Clone() *ApproachRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.Events != nil {
		c.Events = append([]CloseApproachEvent(nil), r.Events...)
	}
	return &c
}

// PathSegment is a directed transition of an asteroid from one orbiting body
// to a different one, between two consecutive close approaches.
type PathSegment struct {
	FromBody string `json:"fromPlanet"`
	ToBody   string `json:"toPlanet"`
	FromDate Date   `json:"fromDate"`
	ToDate   Date   `json:"toDate"`
}

func (s PathSegment) String() string {
	return fmt.Sprintf("%s -> %s (%s to %s)", s.FromBody, s.ToBody, s.FromDate, s.ToDate)
}

// DateWindow is an inclusive calendar range. From is never after To.
type DateWindow struct {
	From Date
	To   Date
}

// NewDateWindow validates and returns the window [from, to].
func NewDateWindow(from, to Date) (DateWindow, error) {
	if from.After(to) {
		return DateWindow{}, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, from, to)
	}
	return DateWindow{From: from, To: to}, nil
}

// Contains reports whether the segment lies entirely inside the window.
// Both bounds are inclusive; partially overlapping segments are not contained.
func (w DateWindow) Contains(s PathSegment) bool {
	return !s.FromDate.Before(w.From) && !s.ToDate.After(w.To)
}

func (w DateWindow) String() string {
	return fmt.Sprintf("[%s, %s]", w.From, w.To)
}
