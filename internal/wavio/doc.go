// Package wavio reads and writes PCM WAV streams and provides the sample
// operations the in-process merge tier is built from: mono downmix, linear
// resampling, sample-width conversion, and two-channel interleaving.
//
// Streams are held fully in memory as raw little-endian PCM plus format
// metadata. The decoder tolerates extra RIFF chunks; the encoder always
// emits the canonical 44-byte header.
package wavio
