package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/neoscope/asteroid-paths/internal/testutil"
	"github.com/neoscope/asteroid-paths/pkg/asteroid"
	"github.com/neoscope/asteroid-paths/pkg/neows"
)

// countingFetcher returns canned results and counts calls per id.
type countingFetcher struct {
	mu      sync.Mutex
	calls   map[int]int
	results map[int]*asteroid.ApproachRecord
	errs    map[int]error
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		calls:   make(map[int]int),
		results: make(map[int]*asteroid.ApproachRecord),
		errs:    make(map[int]error),
	}
}

func (f *countingFetcher) FetchAsteroid(_ context.Context, id int) (*asteroid.ApproachRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return f.results[id], nil
}

func (f *countingFetcher) callsFor(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// brokenStore fails every operation.
type brokenStore struct{}

var errBackendDown = errors.New("backend down")

func (brokenStore) Get(context.Context, Key) (*asteroid.ApproachRecord, error) {
	return nil, errBackendDown
}
func (brokenStore) Set(context.Context, Key, *asteroid.ApproachRecord) error { return errBackendDown }
func (brokenStore) Len(context.Context) (int, error)                         { return 0, errBackendDown }
func (brokenStore) Backend() string                                          { return "broken" }

func TestReadThrough_MissThenHit(t *testing.T) {
	ctx := context.Background()
	fetcher := newCountingFetcher()
	fetcher.results[42] = testRecord("42", "Earth", "Mars")

	rt := NewReadThrough(NewMemoryStore(DefaultOptions()), fetcher)

	for i := 0; i < 3; i++ {
		rec, err := rt.Get(ctx, 42)
		if err != nil {
			t.Fatalf("Get #%d failed: %v", i, err)
		}
		if rec.ID != "42" {
			t.Errorf("Get #%d ID = %q", i, rec.ID)
		}
	}

	if got := fetcher.callsFor(42); got != 1 {
		t.Errorf("fetcher called %d times, want 1", got)
	}
}

func TestReadThrough_KeyedByIDOnly(t *testing.T) {
	ctx := context.Background()
	fetcher := newCountingFetcher()
	fetcher.results[1] = testRecord("1", "Earth")
	fetcher.results[2] = testRecord("2", "Mars")

	rt := NewReadThrough(NewMemoryStore(DefaultOptions()), fetcher)

	for _, id := range []int{1, 2, 1, 2} {
		if _, err := rt.Get(ctx, id); err != nil {
			t.Fatalf("Get(%d) failed: %v", id, err)
		}
	}
	if fetcher.callsFor(1) != 1 || fetcher.callsFor(2) != 1 {
		t.Errorf("calls = %d/%d, want 1/1", fetcher.callsFor(1), fetcher.callsFor(2))
	}
}

func TestReadThrough_FailuresNotCached(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: &neows.UpstreamError{Kind: neows.KindNotFound, StatusCode: 404, Message: neows.MsgNotFound}},
		{name: "rate limited", err: &neows.UpstreamError{Kind: neows.KindRateLimited, StatusCode: 429, Message: neows.MsgRateLimited}},
		{name: "transport", err: &neows.UpstreamError{Kind: neows.KindTransportFailure, Message: neows.MsgTransportFailure}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			fetcher := newCountingFetcher()
			fetcher.errs[7] = tt.err
			store := NewMemoryStore(DefaultOptions())
			rt := NewReadThrough(store, fetcher)

			for i := 0; i < 2; i++ {
				_, err := rt.Get(ctx, 7)
				if err != tt.err {
					t.Fatalf("Get #%d error = %v, want the fetcher error unchanged", i, err)
				}
			}

			if got := fetcher.callsFor(7); got != 2 {
				t.Errorf("fetcher called %d times, want 2", got)
			}
			if n, _ := store.Len(ctx); n != 0 {
				t.Errorf("store Len() = %d, want 0", n)
			}
		})
	}
}

func TestReadThrough_RecoversAfterFailure(t *testing.T) {
	ctx := context.Background()
	fetcher := newCountingFetcher()
	fetcher.errs[9] = &neows.UpstreamError{Kind: neows.KindTransportFailure}
	rt := NewReadThrough(NewMemoryStore(DefaultOptions()), fetcher)

	if _, err := rt.Get(ctx, 9); err == nil {
		t.Fatal("expected first Get to fail")
	}

	fetcher.mu.Lock()
	delete(fetcher.errs, 9)
	fetcher.results[9] = testRecord("9", "Venus")
	fetcher.mu.Unlock()

	if _, err := rt.Get(ctx, 9); err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if _, err := rt.Get(ctx, 9); err != nil {
		t.Fatalf("third Get failed: %v", err)
	}
	if got := fetcher.callsFor(9); got != 2 {
		t.Errorf("fetcher called %d times, want 2", got)
	}
}

func TestReadThrough_StoreErrorsDegradeToFetch(t *testing.T) {
	ctx := context.Background()
	fetcher := newCountingFetcher()
	fetcher.results[5] = testRecord("5", "Earth")
	rt := NewReadThrough(brokenStore{}, fetcher)

	for i := 0; i < 2; i++ {
		rec, err := rt.Get(ctx, 5)
		if err != nil {
			t.Fatalf("Get #%d failed: %v", i, err)
		}
		if rec.ID != "5" {
			t.Errorf("Get #%d ID = %q", i, rec.ID)
		}
	}
	if got := fetcher.callsFor(5); got != 2 {
		t.Errorf("fetcher called %d times, want 2", got)
	}
}

func TestReadThrough_WithNeoWsClient(t *testing.T) {
	mock := testutil.NewMockNeoWs()
	defer mock.Close()

	mock.SetResponse(3542519, testutil.NewLookupResponse(testutil.LookupBody(3542519, "(2010 PK9)",
		testutil.Approach{Date: "2024-03-08", Body: "Earth"},
		testutil.Approach{Date: "2024-06-15", Body: "Jupiter"},
	)))

	cfg := neows.DefaultConfig()
	cfg.BaseURL = mock.BaseURL()
	client, err := neows.New(cfg)
	if err != nil {
		t.Fatalf("neows.New failed: %v", err)
	}

	rt := NewReadThrough(NewMemoryStore(DefaultOptions()), client)
	ctx := context.Background()

	if _, err := rt.Get(ctx, 3542519); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := rt.Get(ctx, 3542519); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if mock.RequestsFor(3542519) != 1 {
		t.Errorf("upstream called %d times, want 1", mock.RequestsFor(3542519))
	}

	// Unknown id: 404, not cached, retried.
	for i := 0; i < 2; i++ {
		if _, err := rt.Get(ctx, 999); !neows.IsKind(err, neows.KindNotFound) {
			t.Fatalf("Get(999) error = %v, want NotFound", err)
		}
	}
	if mock.RequestsFor(999) != 2 {
		t.Errorf("upstream called %d times for 999, want 2", mock.RequestsFor(999))
	}
}

func TestReadThrough_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	var fetches atomic.Int64
	fetcher := FetcherFunc(func(_ context.Context, id int) (*asteroid.ApproachRecord, error) {
		fetches.Add(1)
		return testRecord("c", "Earth", "Mars"), nil
	})
	rt := NewReadThrough(NewMemoryStore(Options{MaxSize: 8}), fetcher)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := rt.Get(ctx, (g+i)%20); err != nil {
					t.Errorf("Get failed: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if n, _ := rt.Store().Len(ctx); n > 8 {
		t.Errorf("store Len() = %d, exceeds max size 8", n)
	}
	if fetches.Load() == 0 {
		t.Error("fetcher never called")
	}
}
