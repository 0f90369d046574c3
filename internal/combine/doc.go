// Package combine produces one two-channel WAV file from two source tracks
// using a tiered strategy chain: ffmpeg, then SoX, then an in-process PCM
// fallback. Every tier writes to a temporary file and renames into place so
// a failed attempt never leaves a partial output.
package combine
