package cache

import "testing"

func TestKey_String(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{3542519, "neo:asteroid:3542519"},
		{0, "neo:asteroid:0"},
		{-7, "neo:asteroid:-7"},
	}

	for _, tt := range tests {
		if got := Key(tt.id).String(); got != tt.want {
			t.Errorf("Key(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
		if got := Key(tt.id).AsteroidID(); got != tt.id {
			t.Errorf("AsteroidID() = %d, want %d", got, tt.id)
		}
	}
}

func TestKey_DistinctIDsDistinctKeys(t *testing.T) {
	seen := make(map[string]int)
	for id := 1; id <= 100; id++ {
		k := Key(id).String()
		if prev, dup := seen[k]; dup {
			t.Fatalf("ids %d and %d share key %q", prev, id, k)
		}
		seen[k] = id
	}
}
