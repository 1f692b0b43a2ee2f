package timeline

// Clip defaults applied at creation time.
const (
	defaultOpacity = 100.0
	defaultVolume  = 100.0
	defaultSpeed   = 1.0
)

// NewMediaClip builds a clip backed by an external asset. The timeline
// duration starts equal to the asset's intrinsic duration (at speed 1),
// floored at MinClipDuration; still images default to their floor.
func NewMediaClip(kind ClipKind, assetID, name string, sourceDuration float64) *Clip {
	duration := sourceDuration
	if duration < MinClipDuration {
		duration = MinClipDuration
	}
	c := &Clip{
		ID:             NewID(),
		Kind:           kind,
		Name:           name,
		AssetID:        assetID,
		Duration:       duration,
		Speed:          defaultSpeed,
		SourceDuration: sourceDuration,
		CornerRadius:   CornerRadius{Linked: true},
	}
	if kind.HasTransform() {
		c.Transform.Opacity = defaultOpacity
	}
	if kind.HasAudio() {
		c.Audio.Volume = defaultVolume
	}
	return c
}

// NewTextClip builds a free-standing text clip at the given timing.
func NewTextClip(text string, start, duration float64) *Clip {
	if duration < MinClipDuration {
		duration = MinClipDuration
	}
	if start < 0 {
		start = 0
	}
	return &Clip{
		ID:           NewID(),
		Kind:         ClipText,
		Text:         text,
		StartTime:    start,
		Duration:     duration,
		Speed:        defaultSpeed,
		Transform:    Transform{Opacity: defaultOpacity},
		CornerRadius: CornerRadius{Linked: true},
	}
}

// NewSubtitleClip builds a caption clip grouped to a source media clip so
// that moving the source shifts the caption with it. Caption timing comes
// from transcribed speech, so the floor is MinSubtitleDuration rather than
// the manual-clip minimum.
func NewSubtitleClip(text string, start, duration float64, sourceClipID string) *Clip {
	c := NewTextClip(text, start, MinClipDuration)
	c.LinkedClipID = sourceClipID
	if duration < MinSubtitleDuration {
		duration = MinSubtitleDuration
	}
	c.Duration = duration
	return c
}

// FitBox centers a media box of the given intrinsic size on the canvas,
// scaled down (never up) to fit. Used to seed a new clip's transform.
func FitBox(canvasW, canvasH, mediaW, mediaH float64) Box {
	if mediaW <= 0 || mediaH <= 0 {
		return Box{Width: canvasW, Height: canvasH}
	}
	scale := 1.0
	if mediaW > canvasW {
		scale = canvasW / mediaW
	}
	if s := canvasH / mediaH; mediaH*scale > canvasH && s < scale {
		scale = s
	}
	w := mediaW * scale
	h := mediaH * scale
	return Box{
		X:      (canvasW - w) / 2,
		Y:      (canvasH - h) / 2,
		Width:  w,
		Height: h,
	}
}
