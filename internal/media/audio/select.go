package audio

import (
	"fmt"
	"strings"

	"vidsum/internal/media/ffprobe"
)

// Select returns the primary audio stream among streams. The boolean is false
// when no audio stream exists.
func Select(streams []ffprobe.Stream) (ffprobe.Stream, bool) {
	var (
		best  ffprobe.Stream
		found bool
	)
	for _, stream := range streams {
		if !stream.IsAudio() {
			continue
		}
		if !found || better(stream, best) {
			best = stream
			found = true
		}
	}
	return best, found
}

func better(candidate, current ffprobe.Stream) bool {
	if cc, cur := candidate.Disposition.Comment == 1, current.Disposition.Comment == 1; cc != cur {
		return !cc
	}
	if cd, cur := candidate.IsDefault(), current.IsDefault(); cd != cur {
		return cd
	}
	if candidate.Channels != current.Channels {
		return candidate.Channels > current.Channels
	}
	return candidate.Index < current.Index
}

// Describe returns a short human-readable label for a stream, e.g.
// "#1 aac 2ch eng".
func Describe(stream ffprobe.Stream) string {
	parts := []string{fmt.Sprintf("#%d", stream.Index)}
	if codec := strings.TrimSpace(stream.CodecName); codec != "" {
		parts = append(parts, codec)
	}
	if stream.Channels > 0 {
		parts = append(parts, fmt.Sprintf("%dch", stream.Channels))
	}
	if lang := strings.TrimSpace(stream.Tags.Language); lang != "" {
		parts = append(parts, lang)
	}
	return strings.Join(parts, " ")
}
