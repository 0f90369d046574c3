package wavio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	riffHeaderSize = 44
	formatPCM      = 1
)

// Stream is a fully decoded PCM stream. Data holds raw little-endian
// frames; its length is always Frames() * Channels * SampleWidth.
type Stream struct {
	SampleRate  int
	SampleWidth int // bytes per sample, 1 through 4
	Channels    int
	Data        []byte
}

// Frames returns the number of complete frames in the stream.
func (s Stream) Frames() int {
	if s.Channels <= 0 || s.SampleWidth <= 0 {
		return 0
	}
	return len(s.Data) / (s.Channels * s.SampleWidth)
}

func (s Stream) validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("wav: sample rate %d out of range", s.SampleRate)
	}
	if s.SampleWidth < 1 || s.SampleWidth > 4 {
		return fmt.Errorf("wav: sample width %d out of range", s.SampleWidth)
	}
	if s.Channels < 1 {
		return fmt.Errorf("wav: channel count %d out of range", s.Channels)
	}
	return nil
}

// ReadFile decodes the WAV file at path into memory.
func ReadFile(path string) (Stream, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Stream{}, err
	}
	stream, err := Decode(payload)
	if err != nil {
		return Stream{}, fmt.Errorf("%s: %w", path, err)
	}
	return stream, nil
}

// Decode parses a RIFF/WAVE container holding PCM data. Chunks other than
// fmt and data are skipped.
func Decode(payload []byte) (Stream, error) {
	if len(payload) < 12 || !bytes.Equal(payload[0:4], []byte("RIFF")) || !bytes.Equal(payload[8:12], []byte("WAVE")) {
		return Stream{}, errors.New("wav: not a RIFF/WAVE container")
	}

	var stream Stream
	haveFmt := false
	haveData := false

	offset := 12
	for offset+8 <= len(payload) {
		id := string(payload[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(payload[offset+4 : offset+8]))
		body := offset + 8
		if size < 0 || body+size > len(payload) {
			// Truncated chunk; accept what is present for data, reject otherwise.
			if id == "data" && body <= len(payload) {
				size = len(payload) - body
			} else {
				return Stream{}, fmt.Errorf("wav: truncated %q chunk", id)
			}
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Stream{}, errors.New("wav: fmt chunk too short")
			}
			format := binary.LittleEndian.Uint16(payload[body : body+2])
			if format != formatPCM {
				return Stream{}, fmt.Errorf("wav: unsupported audio format %d (PCM only)", format)
			}
			stream.Channels = int(binary.LittleEndian.Uint16(payload[body+2 : body+4]))
			stream.SampleRate = int(binary.LittleEndian.Uint32(payload[body+4 : body+8]))
			bits := int(binary.LittleEndian.Uint16(payload[body+14 : body+16]))
			if bits%8 != 0 {
				return Stream{}, fmt.Errorf("wav: unsupported bit depth %d", bits)
			}
			stream.SampleWidth = bits / 8
			haveFmt = true
		case "data":
			stream.Data = append([]byte(nil), payload[body:body+size]...)
			haveData = true
		}

		// Chunks are word-aligned.
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}

	if !haveFmt {
		return Stream{}, errors.New("wav: missing fmt chunk")
	}
	if !haveData {
		return Stream{}, errors.New("wav: missing data chunk")
	}
	if err := stream.validate(); err != nil {
		return Stream{}, err
	}

	// Drop any trailing partial frame so frame math stays exact.
	frameSize := stream.Channels * stream.SampleWidth
	stream.Data = stream.Data[:len(stream.Data)/frameSize*frameSize]
	return stream, nil
}

// WriteFile encodes the stream as a canonical PCM WAV file at path.
func WriteFile(path string, s Stream) error {
	payload, err := Encode(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// Encode serializes the stream with the canonical 44-byte PCM header.
func Encode(s Stream) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	blockAlign := s.Channels * s.SampleWidth
	byteRate := s.SampleRate * blockAlign

	out := make([]byte, 0, riffHeaderSize+len(s.Data))
	buf := bytes.NewBuffer(out)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(s.Data))) //nolint:errcheck
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))              //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(formatPCM))       //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(s.Channels))      //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint32(s.SampleRate))    //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))        //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))      //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(s.SampleWidth*8)) //nolint:errcheck
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(s.Data))) //nolint:errcheck
	buf.Write(s.Data)
	return buf.Bytes(), nil
}
