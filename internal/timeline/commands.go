package timeline

import (
	"fmt"

	"github.com/cutboard/cutboard-agent/internal/timegrid"
)

// Op identifies a discrete, history-safe mutation of the project model.
type Op string

const (
	OpSetStartTime Op = "set_start_time"
	OpSetDuration  Op = "set_duration"
	OpSetSpeed     Op = "set_speed"
	OpSplitClip    Op = "split_clip"
	OpDeleteClip   Op = "delete_clip"
	OpDuplicate    Op = "duplicate_clip"

	OpSetRotation Op = "set_rotation"
	OpSetOpacity  Op = "set_opacity"
	OpSetFlipH    Op = "set_flip_h"
	OpSetFlipV    Op = "set_flip_v"

	OpSetCornerRadius       Op = "set_corner_radius"
	OpSetCornerRadiusLinked Op = "set_corner_radius_linked"

	OpSetVolume      Op = "set_volume"
	OpSetMuted       Op = "set_muted"
	OpSetFadeEnabled Op = "set_fade_enabled"
	OpSetFadeIn      Op = "set_fade_in"
	OpSetFadeOut     Op = "set_fade_out"

	OpSetColor Op = "set_color"

	OpSetText        Op = "set_text"
	OpDetachSubtitle Op = "detach_subtitle"

	OpAddLane    Op = "add_lane"
	OpRemoveLane Op = "remove_lane"
	OpMoveLane   Op = "move_lane"

	OpSetBackgroundColor Op = "set_background_color"
	OpSetBackgroundAsset Op = "set_background_asset"
	OpSetDurationMode    Op = "set_duration_mode"
	OpSetTimelineScale   Op = "set_timeline_scale"
	OpSetCanvasSize      Op = "set_canvas_size"
)

// Corner names accepted by OpSetCornerRadius. "all" targets the linked
// radius.
const (
	CornerAll         = "all"
	CornerTopLeft     = "tl"
	CornerTopRight    = "tr"
	CornerBottomRight = "br"
	CornerBottomLeft  = "bl"
)

// Color channel names accepted by OpSetColor.
const (
	ChannelBrightness = "brightness"
	ChannelContrast   = "contrast"
	ChannelExposure   = "exposure"
	ChannelHue        = "hue"
	ChannelSaturation = "saturation"
	ChannelSharpen    = "sharpen"
	ChannelNoise      = "noise"
	ChannelBlur       = "blur"
	ChannelVignette   = "vignette"
)

// Command is a plain-data mutation request. Every edit that must appear in
// history flows through Apply as a Command; there is no direct field
// assignment from the outside.
type Command struct {
	Op     Op     `json:"op"`
	ClipID string `json:"clip_id,omitempty"`
	LaneID string `json:"lane_id,omitempty"`

	Value   float64 `json:"value,omitempty"`
	Value2  float64 `json:"value2,omitempty"`
	Flag    bool    `json:"flag,omitempty"`
	Text    string  `json:"text,omitempty"`
	Corner  string  `json:"corner,omitempty"`
	Channel string  `json:"channel,omitempty"`
	Kind    string  `json:"kind,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Index   int     `json:"index,omitempty"`
}

// Result reports ids created by a command, e.g. the right-hand clip of a
// split or a freshly added lane.
type Result struct {
	CreatedIDs []string `json:"created_ids,omitempty"`
}

// Apply executes a command against the project. Invalid numeric input is
// rejected with ErrInvalidValue (the prior value is retained); out-of-range
// finite input is clamped. Errors never leave the model half-mutated.
func Apply(p *Project, cmd Command) (*Result, error) {
	res := &Result{}

	switch cmd.Op {
	case OpSetStartTime:
		return res, p.MoveClip(cmd.ClipID, cmd.Value)

	case OpSetDuration:
		if !timegrid.IsFinite(cmd.Value) {
			return nil, ErrInvalidValue
		}
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			if cmd.Value < c.MinDuration() {
				return ErrInvalidTiming
			}
			c.Duration = cmd.Value
			return nil
		})

	case OpSetSpeed:
		if !timegrid.IsFinite(cmd.Value) {
			return nil, ErrInvalidValue
		}
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.Speed = timegrid.Clamp(cmd.Value, SpeedMin, SpeedMax)
			if c.SourceDuration > 0 {
				d := c.SourceDuration / c.Speed
				if min := c.MinDuration(); d < min {
					d = min
				}
				c.Duration = d
			}
			return nil
		})

	case OpSplitClip:
		id, err := p.SplitClip(cmd.ClipID, cmd.Value)
		if err != nil {
			return nil, err
		}
		res.CreatedIDs = append(res.CreatedIDs, id)
		return res, nil

	case OpDeleteClip:
		return res, p.RemoveClip(cmd.ClipID)

	case OpDuplicate:
		id, err := p.DuplicateClip(cmd.ClipID)
		if err != nil {
			return nil, err
		}
		res.CreatedIDs = append(res.CreatedIDs, id)
		return res, nil

	case OpSetRotation:
		return res, setClamped(p, cmd, RotationMin, RotationMax, func(c *Clip, v float64) {
			c.Transform.Rotation = v
		})

	case OpSetOpacity:
		return res, setClamped(p, cmd, OpacityMin, OpacityMax, func(c *Clip, v float64) {
			c.Transform.Opacity = v
		})

	case OpSetFlipH:
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.Transform.FlipH = cmd.Flag
			return nil
		})

	case OpSetFlipV:
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.Transform.FlipV = cmd.Flag
			return nil
		})

	case OpSetCornerRadius:
		return res, applyCornerRadius(p, cmd)

	case OpSetCornerRadiusLinked:
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.CornerRadius.SetLinked(cmd.Flag)
			return nil
		})

	case OpSetVolume:
		return res, setClamped(p, cmd, VolumeMin, VolumeMax, func(c *Clip, v float64) {
			c.Audio.Volume = v
		})

	case OpSetMuted:
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.Audio.Muted = cmd.Flag
			return nil
		})

	case OpSetFadeEnabled:
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.Audio.FadeEnabled = cmd.Flag
			return nil
		})

	case OpSetFadeIn:
		return res, setClamped(p, cmd, FadeMin, FadeMax, func(c *Clip, v float64) {
			c.Audio.FadeIn = v
		})

	case OpSetFadeOut:
		return res, setClamped(p, cmd, FadeMin, FadeMax, func(c *Clip, v float64) {
			c.Audio.FadeOut = v
		})

	case OpSetColor:
		return res, applyColor(p, cmd)

	case OpSetText:
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.Text = cmd.Text
			return nil
		})

	case OpDetachSubtitle:
		return res, p.UpdateClip(cmd.ClipID, func(c *Clip) error {
			c.Detached = true
			return nil
		})

	case OpAddLane:
		lane := p.AddLane(LaneKind(cmd.Kind))
		res.CreatedIDs = append(res.CreatedIDs, lane.ID)
		return res, nil

	case OpRemoveLane:
		return res, p.RemoveLane(cmd.LaneID)

	case OpMoveLane:
		return res, p.MoveLane(cmd.LaneID, cmd.Index)

	case OpSetBackgroundColor:
		p.Background = Background{Color: cmd.Text}
		return res, nil

	case OpSetBackgroundAsset:
		p.Background = Background{AssetID: cmd.Text}
		return res, nil

	case OpSetDurationMode:
		switch DurationMode(cmd.Mode) {
		case DurationAutomatic:
			p.DurationMode = DurationAutomatic
			p.FixedDuration = 0
		case DurationFixed:
			if !timegrid.IsFinite(cmd.Value) || cmd.Value <= 0 {
				return nil, ErrInvalidValue
			}
			p.DurationMode = DurationFixed
			p.FixedDuration = cmd.Value
		default:
			return nil, fmt.Errorf("unknown duration mode %q", cmd.Mode)
		}
		return res, nil

	case OpSetTimelineScale:
		if !timegrid.IsFinite(cmd.Value) {
			return nil, ErrInvalidValue
		}
		p.TimelineScale = timegrid.Clamp(cmd.Value, TimelineScaleMin, TimelineScaleMax)
		return res, nil

	case OpSetCanvasSize:
		if !timegrid.IsFinite(cmd.Value) || !timegrid.IsFinite(cmd.Value2) || cmd.Value <= 0 || cmd.Value2 <= 0 {
			return nil, ErrInvalidValue
		}
		p.CanvasWidth = cmd.Value
		p.CanvasHeight = cmd.Value2
		return res, nil
	}

	return nil, fmt.Errorf("unknown command op %q", cmd.Op)
}

func setClamped(p *Project, cmd Command, min, max float64, assign func(*Clip, float64)) error {
	if !timegrid.IsFinite(cmd.Value) {
		return ErrInvalidValue
	}
	return p.UpdateClip(cmd.ClipID, func(c *Clip) error {
		assign(c, timegrid.Clamp(cmd.Value, min, max))
		return nil
	})
}

func applyCornerRadius(p *Project, cmd Command) error {
	if !timegrid.IsFinite(cmd.Value) {
		return ErrInvalidValue
	}
	v := timegrid.Clamp(cmd.Value, CornerRadiusMin, CornerRadiusMax)
	return p.UpdateClip(cmd.ClipID, func(c *Clip) error {
		cr := &c.CornerRadius
		switch cmd.Corner {
		case CornerAll, "":
			if !cr.Linked {
				return fmt.Errorf("corner radius is unlinked; set a specific corner")
			}
			cr.Radius = v
		case CornerTopLeft:
			return setUnlinkedCorner(cr, &cr.TopLeft, v)
		case CornerTopRight:
			return setUnlinkedCorner(cr, &cr.TopRight, v)
		case CornerBottomRight:
			return setUnlinkedCorner(cr, &cr.BottomRight, v)
		case CornerBottomLeft:
			return setUnlinkedCorner(cr, &cr.BottomLeft, v)
		default:
			return fmt.Errorf("unknown corner %q", cmd.Corner)
		}
		return nil
	})
}

func setUnlinkedCorner(cr *CornerRadius, field *float64, v float64) error {
	if cr.Linked {
		return fmt.Errorf("corner radius is linked; set corner %q or unlink first", CornerAll)
	}
	*field = v
	return nil
}

func applyColor(p *Project, cmd Command) error {
	if !timegrid.IsFinite(cmd.Value) {
		return ErrInvalidValue
	}
	return p.UpdateClip(cmd.ClipID, func(c *Clip) error {
		fx := &c.Effects
		switch cmd.Channel {
		case ChannelBrightness:
			fx.Brightness = timegrid.Clamp(cmd.Value, ColorChannelMin, ColorChannelMax)
		case ChannelContrast:
			fx.Contrast = timegrid.Clamp(cmd.Value, ColorChannelMin, ColorChannelMax)
		case ChannelExposure:
			fx.Exposure = timegrid.Clamp(cmd.Value, ColorChannelMin, ColorChannelMax)
		case ChannelHue:
			fx.Hue = timegrid.Clamp(cmd.Value, HueMin, HueMax)
		case ChannelSaturation:
			fx.Saturation = timegrid.Clamp(cmd.Value, ColorChannelMin, ColorChannelMax)
		case ChannelSharpen:
			fx.Sharpen = timegrid.Clamp(cmd.Value, EffectChannelMin, EffectChannelMax)
		case ChannelNoise:
			fx.Noise = timegrid.Clamp(cmd.Value, EffectChannelMin, EffectChannelMax)
		case ChannelBlur:
			fx.Blur = timegrid.Clamp(cmd.Value, EffectChannelMin, EffectChannelMax)
		case ChannelVignette:
			fx.Vignette = timegrid.Clamp(cmd.Value, EffectChannelMin, EffectChannelMax)
		default:
			return fmt.Errorf("unknown color channel %q", cmd.Channel)
		}
		return nil
	})
}
