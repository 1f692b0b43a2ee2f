package timegrid

import (
	"math"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	for n := 0; n <= 300; n++ {
		got := SecondsToFrame(FrameToSeconds(n))
		if got != n {
			t.Fatalf("SecondsToFrame(FrameToSeconds(%d)) = %d", n, got)
		}
	}
}

func TestSnapToFrame(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.016, FrameToSeconds(0)},
		{0.017, FrameToSeconds(1)},
		{1.0, FrameToSeconds(30)},
		{1.51, FrameToSeconds(45)},
	}
	for _, c := range cases {
		if got := SnapToFrame(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("SnapToFrame(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSnapToInterval(t *testing.T) {
	cases := []struct {
		value    float64
		interval float64
		want     float64
	}{
		{1.2, 0.5, 1.0},
		{1.3, 0.5, 1.5},
		{1.75, 0.5, 2.0}, // math.Round halfway goes up
		{-0.2, 0.5, 0.0},
		{3.0, 0.5, 3.0},
		{1.234, 0, 1.234},
		{1.234, -1, 1.234},
	}
	for _, c := range cases {
		if got := SnapToInterval(c.value, c.interval); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("SnapToInterval(%v, %v) = %v, want %v", c.value, c.interval, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{math.Inf(1), 0, 10, 10},
		{math.Inf(-1), 0, 10, 0},
	}
	for _, c := range cases {
		if got := Clamp(c.value, c.min, c.max); got != c.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", c.value, c.min, c.max, got, c.want)
		}
	}
}

func TestClamp_NaN(t *testing.T) {
	got := Clamp(math.NaN(), 2, 8)
	if got != 2 {
		t.Errorf("Clamp(NaN) = %v, want min bound 2", got)
	}
}

func TestClamp_Idempotent(t *testing.T) {
	for _, v := range []float64{-100, -0.1, 0, 3.7, 10, 1e9, math.NaN(), math.Inf(1)} {
		once := Clamp(v, 0, 10)
		twice := Clamp(once, 0, 10)
		if once != twice {
			t.Errorf("Clamp not idempotent for %v: %v then %v", v, once, twice)
		}
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(-3, 0, 5); got != 0 {
		t.Errorf("ClampInt(-3) = %d, want 0", got)
	}
	if got := ClampInt(9, 0, 5); got != 5 {
		t.Errorf("ClampInt(9) = %d, want 5", got)
	}
	if got := ClampInt(3, 0, 5); got != 3 {
		t.Errorf("ClampInt(3) = %d, want 3", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(0) || !IsFinite(-42.5) {
		t.Error("IsFinite rejected a finite value")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("IsFinite accepted a non-finite value")
	}
}
