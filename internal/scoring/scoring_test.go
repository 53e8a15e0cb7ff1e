package scoring

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"both empty", "", "", 0},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"kitten sitting", "kitten", "sitting", 3},
		{"identical", "im anfang", "im anfang", 0},
		{"single substitution", "gott", "gotz", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"und die erde war wst und leer", "und die erde war wust und leer"},
		{"", "anfang"},
	}
	for _, pair := range pairs {
		ab := Distance(pair[0], pair[1])
		ba := Distance(pair[1], pair[0])
		if ab != ba {
			t.Errorf("Distance(%q, %q) = %d but reversed = %d", pair[0], pair[1], ab, ba)
		}
	}
}

func TestErrorRate(t *testing.T) {
	tests := []struct {
		name     string
		distance int
		length   int
		want     float64
	}{
		{"perfect", 0, 33, 0.0},
		{"partial", 4, 30, 4.0 / 30.0},
		{"capped", 50, 10, 1.0},
		{"zero length", 0, 0, 1.0},
		{"zero length with distance", 7, 0, 1.0},
		{"sentinel caps", SentinelDistance, 40, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorRate(tt.distance, tt.length); got != tt.want {
				t.Errorf("ErrorRate(%d, %d) = %v, want %v", tt.distance, tt.length, got, tt.want)
			}
		})
	}
}

func TestErrorRateMonotonic(t *testing.T) {
	const length = 40
	prev := -1.0
	for distance := 0; distance <= length; distance++ {
		rate := ErrorRate(distance, length)
		if rate < prev {
			t.Fatalf("rate decreased at distance %d: %v < %v", distance, rate, prev)
		}
		if rate < 0 || rate > 1 {
			t.Fatalf("rate out of bounds at distance %d: %v", distance, rate)
		}
		prev = rate
	}
}

func TestAggregateRate(t *testing.T) {
	if got := AggregateRate(4, 63); got != 4.0/63.0 {
		t.Errorf("AggregateRate(4, 63) = %v", got)
	}
	if got := AggregateRate(0, 0); got != 1.0 {
		t.Errorf("AggregateRate(0, 0) = %v, want 1.0", got)
	}
}
