package audio

import (
	"testing"

	"vidsum/internal/media/ffprobe"
)

func TestSelect(t *testing.T) {
	video := ffprobe.Stream{Index: 0, CodecType: "video"}
	tests := []struct {
		name    string
		streams []ffprobe.Stream
		want    int
		found   bool
	}{
		{"no audio", []ffprobe.Stream{video}, 0, false},
		{"single", []ffprobe.Stream{video, {Index: 1, CodecType: "audio", Channels: 2}}, 1, true},
		{
			"default wins over channels",
			[]ffprobe.Stream{
				video,
				{Index: 1, CodecType: "audio", Channels: 6},
				{Index: 2, CodecType: "audio", Channels: 2, Disposition: ffprobe.Disposition{Default: 1}},
			},
			2, true,
		},
		{
			"channels break ties",
			[]ffprobe.Stream{
				{Index: 1, CodecType: "audio", Channels: 2},
				{Index: 2, CodecType: "audio", Channels: 6},
			},
			2, true,
		},
		{
			"lowest index last",
			[]ffprobe.Stream{
				{Index: 3, CodecType: "audio", Channels: 2},
				{Index: 1, CodecType: "Audio", Channels: 2},
			},
			1, true,
		},
		{
			"commentary loses",
			[]ffprobe.Stream{
				{Index: 1, CodecType: "audio", Channels: 2, Disposition: ffprobe.Disposition{Default: 1, Comment: 1}},
				{Index: 2, CodecType: "audio", Channels: 2},
			},
			2, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.streams)
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if ok && got.Index != tt.want {
				t.Fatalf("selected #%d, want #%d", got.Index, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	stream := ffprobe.Stream{Index: 1, CodecName: "aac", Channels: 2, Tags: ffprobe.Tags{Language: "eng"}}
	if got := Describe(stream); got != "#1 aac 2ch eng" {
		t.Fatalf("Describe() = %q", got)
	}
	if got := Describe(ffprobe.Stream{Index: 4}); got != "#4" {
		t.Fatalf("Describe() = %q", got)
	}
}
