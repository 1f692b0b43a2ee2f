// Package timegrid provides the pure time and geometry primitives used by
// the editing core: frame quantization, interval snapping, and saturating
// clamps. All functions are stateless and deterministic.
package timegrid

import "math"

const (
	// FrameStepSeconds is the duration of one frame at the project frame
	// rate of 30fps. Frame quantization is an internal concern: it is only
	// applied when a snap decision asks for it, never silently to stored
	// clip timing.
	FrameStepSeconds = 1.0 / 30.0

	// SnapInterval is the coarse timeline grid spacing in seconds.
	SnapInterval = 0.5
)

// SecondsToFrame converts a timestamp in seconds to the nearest frame index.
func SecondsToFrame(t float64) int {
	return int(math.Round(t / FrameStepSeconds))
}

// FrameToSeconds converts a frame index back to seconds. It is the inverse
// of SecondsToFrame: SecondsToFrame(FrameToSeconds(n)) == n for all n >= 0.
func FrameToSeconds(frame int) float64 {
	return float64(frame) * FrameStepSeconds
}

// SnapToFrame rounds a timestamp to the exact start of its nearest frame.
func SnapToFrame(t float64) float64 {
	return FrameToSeconds(SecondsToFrame(t))
}

// SnapToInterval rounds value to the nearest multiple of interval. A zero or
// negative interval returns value unchanged.
func SnapToInterval(value, interval float64) float64 {
	if interval <= 0 {
		return value
	}
	return math.Round(value/interval) * interval
}

// Clamp saturates value into [min, max]. Non-finite values collapse to the
// nearest bound so NaN never escapes into stored state.
func Clamp(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInt saturates an integer into [min, max].
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsFinite reports whether v is a usable numeric input (not NaN or ±Inf).
// Setters reject non-finite input at the boundary rather than storing it.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
