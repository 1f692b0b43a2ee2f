// Package assets tracks the descriptors of externally stored media. The
// agent never touches the bytes behind an asset; upload, decoding, and
// generation happen elsewhere and communicate back only as completed
// descriptors.
package assets

import (
	"path"
	"strings"
	"time"

	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// Kind is the media kind of an asset.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

// Asset is a plain descriptor of an external media object.
type Asset struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	URL      string  `json:"url"`
	Name     string  `json:"name,omitempty"`
	Duration float64 `json:"duration,omitempty"` // seconds; 0 for stills
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ClipKind maps an asset kind to the clip kind it produces on the timeline.
func (k Kind) ClipKind() timeline.ClipKind {
	switch k {
	case KindImage:
		return timeline.ClipImage
	case KindAudio:
		return timeline.ClipAudio
	default:
		return timeline.ClipVideo
	}
}

var extensionKinds = map[string]Kind{
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".webm": KindVideo,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".ogg":  KindAudio,
}

// KindFromURL infers the asset kind from the URL's file extension.
// Unknown extensions default to video.
func KindFromURL(url string) Kind {
	ext := strings.ToLower(path.Ext(stripQuery(url)))
	if k, ok := extensionKinds[ext]; ok {
		return k
	}
	return KindVideo
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
