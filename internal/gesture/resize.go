package gesture

import (
	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// Spatial resize limits, in canvas units relative to the box the gesture
// started from.
const (
	// MaxScale caps how far a drag can grow the box.
	MaxScale = 4.0
	// MinLayerSize floors the smaller box dimension so a drag can never
	// collapse a clip to a degenerate size.
	MinLayerSize = 80.0
)

// resizeBox computes the dragged box from the gesture-start box, the active
// handle, and the pointer delta. Corner handles scale proportionally around
// the opposite corner; edge handles resize a single axis (used for
// cropping). The result is deterministic in (orig, handle, dx, dy): every
// pointer-move recomputes from the original box, so intermediate events
// never accumulate error.
func resizeBox(orig timeline.Box, h Handle, dx, dy float64) timeline.Box {
	if h.IsCorner() {
		return resizeCorner(orig, h, dx, dy)
	}
	return resizeEdge(orig, h, dx, dy)
}

func resizeCorner(orig timeline.Box, h Handle, dx, dy float64) timeline.Box {
	// Desired size if each axis followed the pointer independently.
	w := orig.Width
	hgt := orig.Height
	switch h {
	case HandleSE:
		w += dx
		hgt += dy
	case HandleNE:
		w += dx
		hgt -= dy
	case HandleSW:
		w -= dx
		hgt += dy
	case HandleNW:
		w -= dx
		hgt -= dy
	}

	// Proportional: follow whichever axis the pointer stretched further.
	scale := w / orig.Width
	if s := hgt / orig.Height; s > scale {
		scale = s
	}
	scale = clampScale(scale, orig)

	newW := orig.Width * scale
	newH := orig.Height * scale

	// The opposite corner is the anchor.
	box := timeline.Box{Width: newW, Height: newH}
	switch h {
	case HandleSE:
		box.X = orig.X
		box.Y = orig.Y
	case HandleNE:
		box.X = orig.X
		box.Y = orig.Y + orig.Height - newH
	case HandleSW:
		box.X = orig.X + orig.Width - newW
		box.Y = orig.Y
	case HandleNW:
		box.X = orig.X + orig.Width - newW
		box.Y = orig.Y + orig.Height - newH
	}
	return box
}

func resizeEdge(orig timeline.Box, h Handle, dx, dy float64) timeline.Box {
	box := orig
	switch h {
	case HandleE:
		box.Width = clampAxis(orig.Width+dx, orig.Width)
	case HandleW:
		w := clampAxis(orig.Width-dx, orig.Width)
		box.X = orig.X + orig.Width - w
		box.Width = w
	case HandleS:
		box.Height = clampAxis(orig.Height+dy, orig.Height)
	case HandleN:
		hgt := clampAxis(orig.Height-dy, orig.Height)
		box.Y = orig.Y + orig.Height - hgt
		box.Height = hgt
	}
	return box
}

// clampScale bounds a proportional scale factor to MaxScale and to the
// MinLayerSize floor on the smaller dimension. A box that starts smaller
// than the floor may keep its size but not shrink further.
func clampScale(scale float64, orig timeline.Box) float64 {
	minDim := orig.Width
	if orig.Height < minDim {
		minDim = orig.Height
	}
	if minDim <= 0 {
		return 1
	}
	floor := MinLayerSize / minDim
	if floor > 1 {
		floor = 1
	}
	if scale < floor {
		return floor
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// clampAxis bounds a single-axis resize to [MinLayerSize, orig*MaxScale],
// keeping an already-small axis at its original size rather than growing it.
func clampAxis(size, origSize float64) float64 {
	min := MinLayerSize
	if origSize < min {
		min = origSize
	}
	max := origSize * MaxScale
	if size < min {
		return min
	}
	if size > max {
		return max
	}
	return size
}
