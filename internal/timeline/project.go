package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cutboard/cutboard-agent/internal/timegrid"
)

var (
	ErrClipNotFound     = errors.New("clip not found")
	ErrLaneNotFound     = errors.New("lane not found")
	ErrLaneKindMismatch = errors.New("clip kind incompatible with lane")
	ErrInvalidValue     = errors.New("invalid numeric value")
	ErrInvalidTiming    = errors.New("invalid time range")
)

// Duration returns the project duration in seconds: the furthest clip end in
// automatic mode, the explicit duration in fixed mode.
func (p *Project) Duration() float64 {
	if p.DurationMode == DurationFixed {
		return p.FixedDuration
	}
	var end float64
	for _, lane := range p.Lanes {
		for _, clip := range lane.Clips {
			if e := clip.EndTime(); e > end {
				end = e
			}
		}
	}
	return end
}

// Lane returns the lane with the given id.
func (p *Project) Lane(id string) (*Lane, error) {
	for _, l := range p.Lanes {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLaneNotFound, id)
}

// AddLane appends a new empty lane of the given kind and returns it.
func (p *Project) AddLane(kind LaneKind) *Lane {
	lane := &Lane{ID: NewID(), Kind: kind}
	p.Lanes = append(p.Lanes, lane)
	return lane
}

// EnsureLane returns the first lane of the given kind, creating one if the
// project has none.
func (p *Project) EnsureLane(kind LaneKind) *Lane {
	for _, l := range p.Lanes {
		if l.Kind == kind {
			return l
		}
	}
	return p.AddLane(kind)
}

// RemoveLane deletes a lane and every clip it owns.
func (p *Project) RemoveLane(id string) error {
	for i, l := range p.Lanes {
		if l.ID == id {
			p.Lanes = append(p.Lanes[:i], p.Lanes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLaneNotFound, id)
}

// MoveLane reorders a lane to the given index, clamped into range.
func (p *Project) MoveLane(id string, index int) error {
	from := -1
	for i, l := range p.Lanes {
		if l.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrLaneNotFound, id)
	}
	index = timegrid.ClampInt(index, 0, len(p.Lanes)-1)
	lane := p.Lanes[from]
	p.Lanes = append(p.Lanes[:from], p.Lanes[from+1:]...)
	p.Lanes = append(p.Lanes[:index], append([]*Lane{lane}, p.Lanes[index:]...)...)
	return nil
}

// AddClip places a clip on the lane, enforcing kind compatibility and the
// ordered-by-start invariant.
func (p *Project) AddClip(laneID string, clip *Clip) error {
	lane, err := p.Lane(laneID)
	if err != nil {
		return err
	}
	if !clip.Kind.CompatibleWith(lane.Kind) {
		return fmt.Errorf("%w: %s on %s lane", ErrLaneKindMismatch, clip.Kind, lane.Kind)
	}
	if clip.StartTime < 0 {
		clip.StartTime = 0
	}
	if min := clip.MinDuration(); clip.Duration < min {
		clip.Duration = min
	}
	clip.LaneID = lane.ID
	lane.Clips = append(lane.Clips, clip)
	sortLane(lane)
	return nil
}

// FindClip locates a clip and its owning lane by id.
func (p *Project) FindClip(id string) (*Clip, *Lane, error) {
	for _, lane := range p.Lanes {
		for _, clip := range lane.Clips {
			if clip.ID == id {
				return clip, lane, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrClipNotFound, id)
}

// RemoveClip deletes a clip from its lane. Subtitle clips linked to it are
// detached rather than deleted.
func (p *Project) RemoveClip(id string) error {
	for _, lane := range p.Lanes {
		for i, clip := range lane.Clips {
			if clip.ID == id {
				lane.Clips = append(lane.Clips[:i], lane.Clips[i+1:]...)
				p.detachLinkedTo(id)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrClipNotFound, id)
}

func (p *Project) detachLinkedTo(sourceID string) {
	for _, lane := range p.Lanes {
		for _, clip := range lane.Clips {
			if clip.LinkedClipID == sourceID {
				clip.Detached = true
			}
		}
	}
}

// UpdateClip is the read-modify-write mutation path for a single clip. All
// command handlers and the gesture engine route through it so that history
// snapshots always observe a consistent tree.
func (p *Project) UpdateClip(id string, fn func(*Clip) error) error {
	clip, lane, err := p.FindClip(id)
	if err != nil {
		return err
	}
	if err := fn(clip); err != nil {
		return err
	}
	sortLane(lane)
	return nil
}

// MoveClip sets a clip's start time (clamped to >= 0) and shifts grouped,
// non-detached subtitle clips by the same delta.
func (p *Project) MoveClip(id string, newStart float64) error {
	if !timegrid.IsFinite(newStart) {
		return ErrInvalidValue
	}
	clip, lane, err := p.FindClip(id)
	if err != nil {
		return err
	}
	if newStart < 0 {
		newStart = 0
	}
	delta := newStart - clip.StartTime
	if delta == 0 {
		return nil
	}
	clip.StartTime = newStart
	sortLane(lane)
	p.shiftLinked(id, delta)
	return nil
}

func (p *Project) shiftLinked(sourceID string, delta float64) {
	for _, lane := range p.Lanes {
		moved := false
		for _, clip := range lane.Clips {
			if clip.LinkedClipID == sourceID && !clip.Detached {
				start := clip.StartTime + delta
				if start < 0 {
					start = 0
				}
				clip.StartTime = start
				moved = true
			}
		}
		if moved {
			sortLane(lane)
		}
	}
}

// TrimClipStart moves a clip's left edge while keeping its end anchored.
// A trim that would drive the duration below the clip's floor is rejected
// and the prior timing retained.
func (p *Project) TrimClipStart(id string, newStart float64) error {
	if !timegrid.IsFinite(newStart) {
		return ErrInvalidValue
	}
	return p.UpdateClip(id, func(c *Clip) error {
		if newStart < 0 {
			newStart = 0
		}
		end := c.EndTime()
		if end-newStart < c.MinDuration() {
			return ErrInvalidTiming
		}
		c.StartTime = newStart
		c.Duration = end - newStart
		return nil
	})
}

// TrimClipEnd moves a clip's right edge, leaving the start untouched.
func (p *Project) TrimClipEnd(id string, newEnd float64) error {
	if !timegrid.IsFinite(newEnd) {
		return ErrInvalidValue
	}
	return p.UpdateClip(id, func(c *Clip) error {
		if newEnd-c.StartTime < c.MinDuration() {
			return ErrInvalidTiming
		}
		c.Duration = newEnd - c.StartTime
		return nil
	})
}

// SplitClip divides a clip at the given timeline position into two clips,
// both at least the clip's duration floor long. Returns the id of the new
// right-hand clip.
func (p *Project) SplitClip(id string, at float64) (string, error) {
	if !timegrid.IsFinite(at) {
		return "", ErrInvalidValue
	}
	clip, lane, err := p.FindClip(id)
	if err != nil {
		return "", err
	}
	if min := clip.MinDuration(); at-clip.StartTime < min || clip.EndTime()-at < min {
		return "", fmt.Errorf("%w: split at %.3fs leaves a clip under %.3gs", ErrInvalidTiming, at, min)
	}

	right := clip.Clone()
	right.ID = NewID()
	right.StartTime = at
	right.Duration = clip.EndTime() - at
	if clip.SourceDuration > 0 {
		ratio := right.Duration / clip.Duration
		right.SourceDuration = clip.SourceDuration * ratio
		clip.SourceDuration -= right.SourceDuration
	}
	clip.Duration = at - clip.StartTime

	lane.Clips = append(lane.Clips, right)
	sortLane(lane)
	return right.ID, nil
}

// DuplicateClip copies a clip onto the same lane immediately after the
// original and returns the new clip id.
func (p *Project) DuplicateClip(id string) (string, error) {
	clip, lane, err := p.FindClip(id)
	if err != nil {
		return "", err
	}
	dup := clip.Clone()
	dup.ID = NewID()
	dup.StartTime = clip.EndTime()
	lane.Clips = append(lane.Clips, dup)
	sortLane(lane)
	return dup.ID, nil
}

// ClipCount returns the total number of clips across all lanes.
func (p *Project) ClipCount() int {
	n := 0
	for _, lane := range p.Lanes {
		n += len(lane.Clips)
	}
	return n
}

func sortLane(lane *Lane) {
	sort.SliceStable(lane.Clips, func(i, j int) bool {
		return lane.Clips[i].StartTime < lane.Clips[j].StartTime
	})
}
