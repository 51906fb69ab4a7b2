// Package audio extracts the primary audio track of a video container into a
// standalone PCM WAV file.
//
// Extraction probes the container with ffprobe first so a file without audio
// fails before ffmpeg runs. When several audio streams exist, Select picks the
// primary one: the default-disposition stream, then the one with the most
// channels, then the lowest index. Commentary-flagged streams lose to any
// regular stream.
//
// Primary entry point:
//   - Extractor.Extract: writes mono 16 kHz s16le WAV (configurable) and
//     returns the output path
package audio
