// Package sox wraps SoX CLI invocations for merging two audio files as the
// channels of one output file. It is the alternate merge tier used when
// ffmpeg is unavailable or fails.
package sox
