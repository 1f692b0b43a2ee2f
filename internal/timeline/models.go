// Package timeline holds the authoritative in-memory representation of an
// editing project: typed lanes of time-positioned clips, their transform and
// audio state, and the command dispatch that is the only mutation path into
// the model. The package has no I/O; persistence and transport live in the
// repository and API layers.
package timeline

import (
	"time"

	"github.com/google/uuid"
)

// Editing limits. Every numeric setter saturates into these ranges.
const (
	MinClipDuration = 1.0 // seconds

	// MinSubtitleDuration is the duration floor for generated caption clips.
	// Their timing follows transcribed speech, where single short words are
	// routine, so the manual-clip minimum does not apply.
	MinSubtitleDuration = 0.1 // seconds

	SpeedMin = 0.1
	SpeedMax = 4.0

	RotationMin = -180.0
	RotationMax = 180.0

	OpacityMin = 0.0
	OpacityMax = 100.0

	CornerRadiusMin = 0.0
	CornerRadiusMax = 120.0

	VolumeMin = 0.0
	VolumeMax = 100.0

	FadeMin = 0.0
	FadeMax = 5.0 // seconds

	TimelineScaleMin = 10.0  // pixels per second
	TimelineScaleMax = 240.0
)

// Color and effect channel ranges. Channels are independent; there are no
// cross-invariants between them.
const (
	ColorChannelMin = -100.0
	ColorChannelMax = 100.0

	HueMin = -180.0
	HueMax = 180.0

	EffectChannelMin = 0.0
	EffectChannelMax = 100.0
)

// LaneKind is the type of a track. A lane only holds clips whose kind is
// compatible with it.
type LaneKind string

const (
	LaneVideo LaneKind = "video"
	LaneAudio LaneKind = "audio"
	LaneText  LaneKind = "text"
)

// ClipKind is the media kind of a clip.
type ClipKind string

const (
	ClipVideo ClipKind = "video"
	ClipImage ClipKind = "image"
	ClipAudio ClipKind = "audio"
	ClipText  ClipKind = "text"
)

// CompatibleWith reports whether a clip of kind k may live on a lane of
// kind l. Video lanes carry video and still-image clips.
func (k ClipKind) CompatibleWith(l LaneKind) bool {
	switch l {
	case LaneVideo:
		return k == ClipVideo || k == ClipImage
	case LaneAudio:
		return k == ClipAudio
	case LaneText:
		return k == ClipText
	}
	return false
}

// LaneForClip returns the lane kind that hosts clips of kind k.
func LaneForClip(k ClipKind) LaneKind {
	switch k {
	case ClipAudio:
		return LaneAudio
	case ClipText:
		return LaneText
	default:
		return LaneVideo
	}
}

// HasTransform reports whether clips of this kind carry a spatial transform.
func (k ClipKind) HasTransform() bool {
	return k != ClipAudio
}

// HasAudio reports whether clips of this kind carry audio shaping.
func (k ClipKind) HasAudio() bool {
	return k == ClipVideo || k == ClipAudio
}

// Box is an axis-aligned rectangle on the canvas, in canvas units.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AspectRatio returns width/height, or 0 for a degenerate box.
func (b Box) AspectRatio() float64 {
	if b.Height == 0 {
		return 0
	}
	return b.Width / b.Height
}

// Transform is the spatial state of a video/image/text clip.
type Transform struct {
	Box      Box     `json:"box"`
	Rotation float64 `json:"rotation"` // degrees, [-180, 180]
	FlipH    bool    `json:"flip_h"`
	FlipV    bool    `json:"flip_v"`
	Opacity  float64 `json:"opacity"` // [0, 100]
}

// CornerRadius is a tagged variant: when Linked is true the single Radius
// field is authoritative for all four corners; otherwise the per-corner
// fields are. Toggling Linked copies the prior representation into the newly
// authoritative fields so no value is silently lost.
type CornerRadius struct {
	Linked      bool    `json:"linked"`
	Radius      float64 `json:"radius"`
	TopLeft     float64 `json:"top_left"`
	TopRight    float64 `json:"top_right"`
	BottomRight float64 `json:"bottom_right"`
	BottomLeft  float64 `json:"bottom_left"`
}

// SetLinked switches the authoritative representation, carrying the current
// value across. Linking adopts the top-left radius for all corners; unlinking
// fans the single radius out to all four.
func (c *CornerRadius) SetLinked(linked bool) {
	if c.Linked == linked {
		return
	}
	if linked {
		c.Radius = c.TopLeft
	} else {
		c.TopLeft = c.Radius
		c.TopRight = c.Radius
		c.BottomRight = c.Radius
		c.BottomLeft = c.Radius
	}
	c.Linked = linked
}

// Audio is the audio shaping state of a video/audio clip.
type Audio struct {
	Volume      float64 `json:"volume"` // [0, 100]
	Muted       bool    `json:"muted"`
	FadeEnabled bool    `json:"fade_enabled"`
	FadeIn      float64 `json:"fade_in"`  // seconds, [0, 5]
	FadeOut     float64 `json:"fade_out"` // seconds, [0, 5]
}

// ColorEffects are the per-clip color correction and effect channels for
// video clips. Each channel is an independent numeric value.
type ColorEffects struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Exposure   float64 `json:"exposure"`
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Sharpen    float64 `json:"sharpen"`
	Noise      float64 `json:"noise"`
	Blur       float64 `json:"blur"`
	Vignette   float64 `json:"vignette"`
}

// Clip is the core mutable editing unit: a timed, transformable span on a
// lane. Clips reference lanes, assets, and each other only by id so the
// whole project is a plain record graph.
type Clip struct {
	ID     string   `json:"id"`
	LaneID string   `json:"lane_id"`
	Kind   ClipKind `json:"kind"`
	Name   string   `json:"name,omitempty"`

	// AssetID references the external asset backing a media clip.
	AssetID string `json:"asset_id,omitempty"`

	StartTime float64 `json:"start_time"` // seconds, >= 0
	Duration  float64 `json:"duration"`   // seconds, >= MinDuration()

	// Speed is the playback rate multiplier. SourceDuration is the asset's
	// intrinsic duration; the timeline duration is recomputed from it when
	// speed changes, not stored as a separate mapping.
	Speed          float64 `json:"speed"`
	SourceDuration float64 `json:"source_duration,omitempty"`

	Transform    Transform    `json:"transform"`
	CornerRadius CornerRadius `json:"corner_radius"`
	Audio        Audio        `json:"audio"`
	Effects      ColorEffects `json:"effects"`

	// Text is the content of text and subtitle clips.
	Text string `json:"text,omitempty"`

	// LinkedClipID groups a derived subtitle clip to its source media clip:
	// moving the source shifts the subtitle by the same delta. Detached
	// severs that linkage while keeping the reference for display.
	LinkedClipID string `json:"linked_clip_id,omitempty"`
	Detached     bool   `json:"detached,omitempty"`
}

// EndTime returns the clip's exclusive end on the timeline.
func (c *Clip) EndTime() float64 {
	return c.StartTime + c.Duration
}

// MinDuration returns the duration floor every timing operation enforces
// for this clip: MinSubtitleDuration for generated captions (text grouped
// to a source clip), MinClipDuration for everything else.
func (c *Clip) MinDuration() float64 {
	if c.Kind == ClipText && c.LinkedClipID != "" {
		return MinSubtitleDuration
	}
	return MinClipDuration
}

// Clone returns a deep copy of the clip.
func (c *Clip) Clone() *Clip {
	dup := *c
	return &dup
}

// Lane is a typed track owning an ordered (by start time) set of clips.
type Lane struct {
	ID    string   `json:"id"`
	Kind  LaneKind `json:"kind"`
	Clips []*Clip  `json:"clips"`
}

// Clone returns a deep copy of the lane and its clips.
func (l *Lane) Clone() *Lane {
	dup := &Lane{ID: l.ID, Kind: l.Kind}
	if len(l.Clips) > 0 {
		dup.Clips = make([]*Clip, len(l.Clips))
		for i, c := range l.Clips {
			dup.Clips[i] = c.Clone()
		}
	}
	return dup
}

// DurationMode selects how the project duration is derived.
type DurationMode string

const (
	// DurationAutomatic derives the duration from the furthest clip end.
	DurationAutomatic DurationMode = "automatic"
	// DurationFixed uses an explicit duration in seconds.
	DurationFixed DurationMode = "fixed"
)

// Background is the project background fill: a solid color or an image
// asset. AssetID wins when both are set.
type Background struct {
	Color   string `json:"color,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
}

// Project is the root aggregate. It owns all lanes and is fully
// reconstructable from its serialized form alone.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	DurationMode  DurationMode `json:"duration_mode"`
	FixedDuration float64      `json:"fixed_duration,omitempty"`

	Background   Background `json:"background"`
	CanvasWidth  float64    `json:"canvas_width"`
	CanvasHeight float64    `json:"canvas_height"`

	// TimelineScale is the pixel-to-time zoom in pixels per second,
	// clamped to [TimelineScaleMin, TimelineScaleMax].
	TimelineScale float64 `json:"timeline_scale"`

	Lanes []*Lane `json:"lanes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProject creates an empty project with a 1080p canvas and default zoom.
func NewProject(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:            NewID(),
		Name:          name,
		DurationMode:  DurationAutomatic,
		Background:    Background{Color: "#000000"},
		CanvasWidth:   1920,
		CanvasHeight:  1080,
		TimelineScale: 60,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy of the project. History snapshots and undo/redo
// round trips rely on clones never sharing clip structs with the live tree.
func (p *Project) Clone() *Project {
	dup := *p
	if len(p.Lanes) > 0 {
		dup.Lanes = make([]*Lane, len(p.Lanes))
		for i, l := range p.Lanes {
			dup.Lanes[i] = l.Clone()
		}
	}
	return &dup
}

// NewID returns a fresh opaque id for projects, lanes, and clips.
func NewID() string {
	return uuid.NewString()
}
