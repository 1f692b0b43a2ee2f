// Package beats partitions timed word spans into short animated caption
// groups ("beats"). Segmentation is a pure function: the same words and
// parameters always yield the same beats, so it can be re-run from scratch
// whenever upstream word timing changes.
package beats

// Parameter defaults matching the caption animation presets.
const (
	DefaultMinWords     = 2
	DefaultMaxWords     = 2
	DefaultMaxSpan      = 1.2  // seconds
	DefaultLongPause    = 0.25 // seconds
	DefaultEnterSeconds = 0.17 // seconds
)

// Word is one transcribed word span. Input order is authoritative: the
// engine never reorders words, even when spans overlap.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}

// Params controls segmentation.
type Params struct {
	// MinWords is the preferred minimum words per beat (>= 1).
	MinWords int `json:"min_words"`
	// MaxWords is the hard maximum words per beat (>= MinWords).
	MaxWords int `json:"max_words"`
	// MaxSpanSeconds is the hard maximum beat span from first word start to
	// last word end.
	MaxSpanSeconds float64 `json:"max_span_seconds"`
	// LongPauseSeconds is the inter-word gap treated as a hard semantic
	// break.
	LongPauseSeconds float64 `json:"long_pause_seconds"`
	// EnterSeconds is the pop-in animation lead time before each beat's
	// start; zero disables enter offsets.
	EnterSeconds float64 `json:"enter_seconds"`
}

// DefaultParams returns the standard caption segmentation parameters.
func DefaultParams() Params {
	return Params{
		MinWords:         DefaultMinWords,
		MaxWords:         DefaultMaxWords,
		MaxSpanSeconds:   DefaultMaxSpan,
		LongPauseSeconds: DefaultLongPause,
		EnterSeconds:     DefaultEnterSeconds,
	}
}

// normalize saturates parameters into their documented domains.
func (p Params) normalize() Params {
	if p.MinWords < 1 {
		p.MinWords = 1
	}
	if p.MaxWords < p.MinWords {
		p.MaxWords = p.MinWords
	}
	if p.MaxSpanSeconds <= 0 {
		p.MaxSpanSeconds = DefaultMaxSpan
	}
	if p.LongPauseSeconds <= 0 {
		p.LongPauseSeconds = DefaultLongPause
	}
	if p.EnterSeconds < 0 {
		p.EnterSeconds = 0
	}
	return p
}

// Beat is an ordered group of words with a display span and an optional
// enter offset for pop-in animation. It carries timing and word membership
// only; styling belongs to the renderer.
type Beat struct {
	Words []Word  `json:"words"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
	// Enter is the absolute time at which the pop-in animation begins. It
	// never reaches back into the previous beat's display window.
	Enter float64 `json:"enter_time"`
}

// Segment greedily partitions words into beats in a single deterministic
// pass. A beat closes when it holds MaxWords words, when consuming the next
// word would stretch it past MaxSpanSeconds, or when the gap to the next
// word exceeds LongPauseSeconds. A long pause is a hard break regardless of
// the MinWords floor: a pause-bounded beat may come out short, same as the
// final beat of the segment.
//
// Overlapping or reversed word spans are tolerated: word order stays as
// given and beat spans are clamped to be non-negative, which can report a
// span smaller than the input covered. Callers that care should log it.
func Segment(words []Word, p Params) []Beat {
	p = p.normalize()
	if len(words) == 0 {
		return nil
	}

	var beats []Beat
	cur := []Word{words[0]}

	for _, next := range words[1:] {
		last := cur[len(cur)-1]

		countBreak := len(cur) >= p.MaxWords
		spanBreak := next.End-cur[0].Start > p.MaxSpanSeconds
		pauseBreak := next.Start-last.End > p.LongPauseSeconds

		if countBreak || spanBreak || pauseBreak {
			beats = append(beats, closeBeat(cur))
			cur = []Word{next}
			continue
		}
		cur = append(cur, next)
	}
	beats = append(beats, closeBeat(cur))

	assignEnterTimes(beats, p.EnterSeconds)
	return beats
}

func closeBeat(words []Word) Beat {
	start := words[0].Start
	end := words[len(words)-1].End
	if end < start {
		end = start
	}
	return Beat{
		Words: append([]Word(nil), words...),
		Start: start,
		End:   end,
	}
}

// assignEnterTimes gives each beat a pop-in lead of up to enterSeconds,
// clipped so enter windows never overlap the previous beat's display window.
func assignEnterTimes(beats []Beat, enterSeconds float64) {
	priorEnd := 0.0
	for i := range beats {
		enter := beats[i].Start
		if enterSeconds > 0 {
			enter = beats[i].Start - enterSeconds
			if enter < priorEnd {
				enter = priorEnd
			}
			if enter > beats[i].Start {
				enter = beats[i].Start
			}
		}
		beats[i].Enter = enter
		priorEnd = beats[i].End
	}
}
