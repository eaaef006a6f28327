package resilience

import (
	"testing"
	"time"
)

func TestBackoff_Delay_Exponential(t *testing.T) {
	b := Backoff{Initial: 100 * time.Millisecond, Max: 10 * time.Second, Factor: 2}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := b.Delay(tc.attempt); got != tc.want {
			t.Errorf("Delay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestBackoff_Delay_CappedAtMax(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: 3 * time.Second, Factor: 2}
	if got := b.Delay(3); got != 3*time.Second {
		t.Errorf("expected cap at 3s, got %v", got)
	}
	if got := b.Delay(10_000); got != 3*time.Second {
		t.Errorf("expected cap for huge attempt, got %v", got)
	}
}

func TestBackoff_Delay_Deterministic(t *testing.T) {
	b := DefaultBackoff()
	for attempt := 0; attempt < 20; attempt++ {
		first, second := b.Delay(attempt), b.Delay(attempt)
		if first != second {
			t.Fatalf("Delay(%d) not deterministic: %v vs %v", attempt, first, second)
		}
		if first < 0 {
			t.Fatalf("Delay(%d) negative: %v", attempt, first)
		}
		if first > b.Max {
			t.Fatalf("Delay(%d) = %v above max %v", attempt, first, b.Max)
		}
	}
}

func TestBackoff_Delay_NegativeAttempt(t *testing.T) {
	if got := DefaultBackoff().Delay(-1); got != 0 {
		t.Errorf("expected 0 for negative attempt, got %v", got)
	}
}

func TestBackoff_ApplyDefaults(t *testing.T) {
	var b Backoff
	b.ApplyDefaults()
	if b != DefaultBackoff() {
		t.Errorf("expected defaults, got %+v", b)
	}

	custom := Backoff{Initial: time.Second}
	custom.ApplyDefaults()
	if custom.Initial != time.Second {
		t.Errorf("expected initial preserved, got %v", custom.Initial)
	}
}

func TestBackoff_Validate(t *testing.T) {
	tests := []struct {
		name    string
		b       Backoff
		wantErr bool
	}{
		{"defaults", DefaultBackoff(), false},
		{"factor below one", Backoff{Initial: time.Second, Max: time.Second, Factor: 0.5}, true},
		{"max below initial", Backoff{Initial: 2 * time.Second, Max: time.Second, Factor: 2}, true},
		{"negative", Backoff{Initial: -1, Max: time.Second, Factor: 2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.b.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
