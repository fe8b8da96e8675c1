package paths

import (
	"reflect"
	"testing"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
)

func ev(date, body string) asteroid.CloseApproachEvent {
	return asteroid.CloseApproachEvent{Date: asteroid.MustParseDate(date), OrbitingBody: body}
}

func seg(from, to, fromDate, toDate string) asteroid.PathSegment {
	return asteroid.PathSegment{
		FromBody: from,
		ToBody:   to,
		FromDate: asteroid.MustParseDate(fromDate),
		ToDate:   asteroid.MustParseDate(toDate),
	}
}

func window(from, to string) asteroid.DateWindow {
	return asteroid.DateWindow{From: asteroid.MustParseDate(from), To: asteroid.MustParseDate(to)}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name   string
		events []asteroid.CloseApproachEvent
		window asteroid.DateWindow
		want   []asteroid.PathSegment
	}{
		{
			name: "single transition",
			events: []asteroid.CloseApproachEvent{
				ev("2024-03-08", "Earth"),
				ev("2024-06-15", "Jupiter"),
			},
			window: window("2024-01-01", "2025-12-31"),
			want: []asteroid.PathSegment{
				seg("Earth", "Jupiter", "2024-03-08", "2024-06-15"),
			},
		},
		{
			name: "unsorted input",
			events: []asteroid.CloseApproachEvent{
				ev("2025-06-15", "Jupiter"),
				ev("2023-12-12", "Earth"),
				ev("2024-02-17", "Mercury"),
			},
			window: window("2020-01-01", "2030-12-31"),
			want: []asteroid.PathSegment{
				seg("Earth", "Mercury", "2023-12-12", "2024-02-17"),
				seg("Mercury", "Jupiter", "2024-02-17", "2025-06-15"),
			},
		},
		{
			name: "same body adjacency skipped",
			events: []asteroid.CloseApproachEvent{
				ev("2020-01-01", "Earth"),
				ev("2021-01-01", "Earth"),
				ev("2022-01-01", "Mars"),
				ev("2023-01-01", "Mars"),
			},
			window: window("2000-01-01", "2030-01-01"),
			want: []asteroid.PathSegment{
				seg("Earth", "Mars", "2021-01-01", "2022-01-01"),
			},
		},
		{
			name:   "no events",
			events: nil,
			window: window("2000-01-01", "2030-01-01"),
			want:   []asteroid.PathSegment{},
		},
		{
			name:   "single event",
			events: []asteroid.CloseApproachEvent{ev("2020-01-01", "Earth")},
			window: window("2000-01-01", "2030-01-01"),
			want:   []asteroid.PathSegment{},
		},
		{
			name: "bounds are inclusive",
			events: []asteroid.CloseApproachEvent{
				ev("2024-01-01", "Earth"),
				ev("2024-12-31", "Venus"),
			},
			window: window("2024-01-01", "2024-12-31"),
			want: []asteroid.PathSegment{
				seg("Earth", "Venus", "2024-01-01", "2024-12-31"),
			},
		},
		{
			name: "segment ending one day past window dropped",
			events: []asteroid.CloseApproachEvent{
				ev("2024-01-01", "Earth"),
				ev("2025-01-01", "Venus"),
			},
			window: window("2024-01-01", "2024-12-31"),
			want:   []asteroid.PathSegment{},
		},
		{
			name: "partial overlap dropped not clipped",
			events: []asteroid.CloseApproachEvent{
				ev("2019-06-01", "Earth"),
				ev("2020-06-01", "Mars"),
				ev("2020-09-01", "Earth"),
			},
			window: window("2020-01-01", "2020-12-31"),
			want: []asteroid.PathSegment{
				seg("Mars", "Earth", "2020-06-01", "2020-09-01"),
			},
		},
		{
			name: "same date keeps upstream order",
			events: []asteroid.CloseApproachEvent{
				ev("2024-05-05", "Venus"),
				ev("2024-05-05", "Earth"),
				ev("2024-01-01", "Mars"),
			},
			window: window("2024-01-01", "2024-12-31"),
			want: []asteroid.PathSegment{
				seg("Mars", "Venus", "2024-01-01", "2024-05-05"),
				seg("Venus", "Earth", "2024-05-05", "2024-05-05"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.events, tt.window)
			if got == nil {
				t.Fatal("Derive returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Derive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDerive_Idempotent(t *testing.T) {
	events := []asteroid.CloseApproachEvent{
		ev("1999-01-01", "Mars"),
		ev("1990-01-01", "Earth"),
		ev("2005-01-01", "Earth"),
		ev("2001-01-01", "Venus"),
	}
	w := window("1900-01-01", "2100-01-01")

	first := Derive(events, w)
	second := Derive(events, w)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Derive not idempotent: %v vs %v", first, second)
	}
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	events := []asteroid.CloseApproachEvent{
		ev("2025-06-15", "Jupiter"),
		ev("2023-12-12", "Earth"),
	}
	original := append([]asteroid.CloseApproachEvent(nil), events...)

	Derive(events, window("2000-01-01", "2030-01-01"))

	if !reflect.DeepEqual(events, original) {
		t.Errorf("input mutated: %v, want %v", events, original)
	}
}

func TestBuildSegments_CountMatchesDifferingPairs(t *testing.T) {
	bodies := []string{"Earth", "Earth", "Mars", "Venus", "Venus", "Earth", "Mars", "Mars", "Juptr"}
	events := make([]asteroid.CloseApproachEvent, len(bodies))
	start := asteroid.MustParseDate("2000-01-01")
	for i, b := range bodies {
		events[i] = asteroid.CloseApproachEvent{Date: start.AddDays(i * 30), OrbitingBody: b}
	}

	want := 0
	for i := 0; i+1 < len(bodies); i++ {
		if bodies[i] != bodies[i+1] {
			want++
		}
	}

	got := BuildSegments(SortEvents(events))
	if len(got) != want {
		t.Errorf("len(BuildSegments()) = %d, want %d", len(got), want)
	}
	for _, s := range got {
		if s.FromBody == s.ToBody {
			t.Errorf("segment with identical bodies: %v", s)
		}
		if s.FromDate.After(s.ToDate) {
			t.Errorf("segment with inverted dates: %v", s)
		}
	}
}

func TestSortEvents_NonDecreasing(t *testing.T) {
	events := []asteroid.CloseApproachEvent{
		ev("2010-05-01", "Earth"),
		ev("1950-02-01", "Mars"),
		ev("2030-11-11", "Venus"),
		ev("1980-07-07", "Earth"),
		ev("1950-02-01", "Merc"),
	}

	sorted := SortEvents(events)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Before(sorted[i-1].Date) {
			t.Fatalf("not sorted at %d: %v", i, sorted)
		}
	}

	segments := Derive(events, window("1900-01-01", "2100-01-01"))
	for i := 1; i < len(segments); i++ {
		if segments[i].FromDate.Before(segments[i-1].FromDate) {
			t.Errorf("segments out of order at %d: %v", i, segments)
		}
	}
}
