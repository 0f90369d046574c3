// Package ffmpeg wraps ffmpeg CLI invocations for merging two audio files
// into one two-channel output via the amerge filter. It is the preferred
// merge tier.
package ffmpeg
