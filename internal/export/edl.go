package export

import (
	"fmt"
	"math"
	"strings"
)

// GenerateEDL renders the resolved video clips as a CMX3600-style edit
// decision list. Record timecodes come straight from the clips' timeline
// positions; source in/out spans are the clip's window into its media.
func GenerateEDL(clips []ResolvedClip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, clip := range clips {
		srcIn := secondsToTimecode(clip.SourceStart, fps)
		srcOut := secondsToTimecode(clip.SourceEnd, fps)
		recIn := secondsToTimecode(clip.RecordStart, fps)
		recOut := secondsToTimecode(clip.RecordEnd, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clip.ClipName),
			fmt.Sprintf("* MEDIA PATH:  %s", clip.MediaURL),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secondsToTimecode(seconds float64, fps int) string {
	if seconds < 0 {
		seconds = 0
	}
	totalFrames := int(math.Round(seconds * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}
