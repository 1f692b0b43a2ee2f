// Package gesture interprets one continuous pointer interaction against the
// project model: spatial resize through one of eight handles, body drags and
// edge trims on the timeline with snapping. The engine is a per-session
// state machine (idle -> dragging -> idle); no drag survives past End or
// Cancel, and only End reports whether the interaction should produce a
// history snapshot.
package gesture

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// Handle identifies which grab point started a gesture.
type Handle string

const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

// IsCorner reports whether the handle scales proportionally (aspect held).
func (h Handle) IsCorner() bool {
	switch h {
	case HandleNE, HandleSE, HandleSW, HandleNW:
		return true
	}
	return false
}

func (h Handle) valid() bool {
	switch h {
	case HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW:
		return true
	}
	return false
}

// Edge identifies which temporal edge a trim gesture drags.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

type mode int

const (
	modeResize mode = iota
	modeMove
	modeTrim
)

var (
	ErrGestureActive = errors.New("a gesture is already in progress")
	ErrNoGesture     = errors.New("no gesture in progress")
	ErrBadHandle     = errors.New("unknown handle")
)

type drag struct {
	mode   mode
	clipID string
	handle Handle
	edge   Edge

	// pre-gesture state, restored exactly on cancel
	before *timeline.Clip
	// linked subtitle timing captured for cancel of move gestures
	linkedBefore map[string]float64

	origBox timeline.Box
}

// Engine is the per-session gesture state machine. It is not safe for
// concurrent use; the owning session serializes access.
type Engine struct {
	logger *slog.Logger
	drag   *drag
}

// NewEngine returns an idle engine.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Active reports whether a drag is in progress.
func (e *Engine) Active() bool { return e.drag != nil }

// ClipID returns the clip owning the active drag, or "".
func (e *Engine) ClipID() string {
	if e.drag == nil {
		return ""
	}
	return e.drag.clipID
}

// BeginResize starts a spatial resize gesture on one of the eight handles.
func (e *Engine) BeginResize(p *timeline.Project, clipID string, handle Handle) error {
	if !handle.valid() {
		return fmt.Errorf("%w: %q", ErrBadHandle, handle)
	}
	clip, err := e.begin(p, clipID)
	if err != nil {
		return err
	}
	if !clip.Kind.HasTransform() {
		e.drag = nil
		return fmt.Errorf("clip kind %s has no transform", clip.Kind)
	}
	e.drag.mode = modeResize
	e.drag.handle = handle
	e.drag.origBox = clip.Transform.Box
	return nil
}

// BeginMove starts a timeline body drag.
func (e *Engine) BeginMove(p *timeline.Project, clipID string) error {
	clip, err := e.begin(p, clipID)
	if err != nil {
		return err
	}
	e.drag.mode = modeMove
	e.drag.linkedBefore = captureLinked(p, clip.ID)
	return nil
}

// BeginTrim starts a temporal edge trim.
func (e *Engine) BeginTrim(p *timeline.Project, clipID string, edge Edge) error {
	if edge != EdgeStart && edge != EdgeEnd {
		return fmt.Errorf("%w: trim edge %q", ErrBadHandle, edge)
	}
	if _, err := e.begin(p, clipID); err != nil {
		return err
	}
	e.drag.mode = modeTrim
	e.drag.edge = edge
	return nil
}

func (e *Engine) begin(p *timeline.Project, clipID string) (*timeline.Clip, error) {
	if e.drag != nil {
		return nil, ErrGestureActive
	}
	clip, _, err := p.FindClip(clipID)
	if err != nil {
		return nil, err
	}
	e.drag = &drag{clipID: clipID, before: clip.Clone()}
	return clip, nil
}

// Update applies one pointer-move event to the live model. For resize
// gestures dx/dy are canvas-unit deltas from the gesture start; for move and
// trim gestures, value is the candidate time in seconds for the dragged
// body/edge. Updates mutate live state without touching history.
func (e *Engine) Update(p *timeline.Project, dx, dy, value float64) error {
	if e.drag == nil {
		return ErrNoGesture
	}
	switch e.drag.mode {
	case modeResize:
		return e.updateResize(p, dx, dy)
	case modeMove:
		return e.updateMove(p, value)
	case modeTrim:
		return e.updateTrim(p, value)
	}
	return ErrNoGesture
}

func (e *Engine) updateResize(p *timeline.Project, dx, dy float64) error {
	d := e.drag
	box := resizeBox(d.origBox, d.handle, dx, dy)
	return p.UpdateClip(d.clipID, func(c *timeline.Clip) error {
		c.Transform.Box = box
		return nil
	})
}

func (e *Engine) updateMove(p *timeline.Project, candidateStart float64) error {
	d := e.drag
	clip, lane, err := p.FindClip(d.clipID)
	if err != nil {
		return err
	}
	snapped := snapMove(p, lane, clip, candidateStart)
	return p.MoveClip(d.clipID, snapped)
}

func (e *Engine) updateTrim(p *timeline.Project, candidate float64) error {
	d := e.drag
	clip, lane, err := p.FindClip(d.clipID)
	if err != nil {
		return err
	}
	snapped, _ := snapEdge(p, lane, clip.ID, candidate)
	if d.edge == EdgeStart {
		err = p.TrimClipStart(d.clipID, snapped)
	} else {
		err = p.TrimClipEnd(d.clipID, snapped)
	}
	// An over-trim is a no-op for that axis: prior timing is retained and
	// the gesture continues.
	if errors.Is(err, timeline.ErrInvalidTiming) {
		return nil
	}
	return err
}

// End completes the gesture and reports whether the clip actually changed;
// the caller commits a history snapshot only when it did.
func (e *Engine) End(p *timeline.Project) (bool, error) {
	if e.drag == nil {
		return false, ErrNoGesture
	}
	d := e.drag
	e.drag = nil

	clip, _, err := p.FindClip(d.clipID)
	if err != nil {
		return false, err
	}
	changed := *clip != *d.before
	if e.logger != nil {
		e.logger.Debug("gesture ended", "clip_id", d.clipID, "changed", changed)
	}
	return changed, nil
}

// Cancel aborts the gesture and restores the clip (and any grouped subtitle
// clips a move had shifted) to its exact pre-gesture state. Cancel never
// produces a history snapshot.
func (e *Engine) Cancel(p *timeline.Project) error {
	if e.drag == nil {
		return ErrNoGesture
	}
	d := e.drag
	e.drag = nil

	err := p.UpdateClip(d.clipID, func(c *timeline.Clip) error {
		*c = *d.before
		return nil
	})
	if err != nil {
		return err
	}
	for id, start := range d.linkedBefore {
		restoreErr := p.UpdateClip(id, func(c *timeline.Clip) error {
			c.StartTime = start
			return nil
		})
		if restoreErr != nil && !errors.Is(restoreErr, timeline.ErrClipNotFound) {
			return restoreErr
		}
	}
	if e.logger != nil {
		e.logger.Debug("gesture cancelled", "clip_id", d.clipID)
	}
	return nil
}

func captureLinked(p *timeline.Project, sourceID string) map[string]float64 {
	var starts map[string]float64
	for _, lane := range p.Lanes {
		for _, clip := range lane.Clips {
			if clip.LinkedClipID == sourceID && !clip.Detached {
				if starts == nil {
					starts = make(map[string]float64)
				}
				starts[clip.ID] = clip.StartTime
			}
		}
	}
	return starts
}
