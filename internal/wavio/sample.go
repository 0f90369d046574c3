package wavio

// sampleAt returns the signed value of the sample at index i. Eight-bit
// PCM is stored unsigned with 0x80 as silence; wider widths are signed
// little-endian.
func sampleAt(data []byte, i, width int) int {
	off := i * width
	switch width {
	case 1:
		return int(data[off]) - 0x80
	case 2:
		return int(int16(uint16(data[off]) | uint16(data[off+1])<<8))
	case 3:
		v := int32(uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16)
		if v&0x800000 != 0 {
			v |= ^int32(0xffffff)
		}
		return int(v)
	case 4:
		return int(int32(uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16 | uint32(data[off+3])<<24))
	}
	return 0
}

// putSample stores a signed value at sample index i, clamping to the
// width's representable range.
func putSample(data []byte, i, width, value int) {
	value = clampSample(value, width)
	off := i * width
	switch width {
	case 1:
		data[off] = byte(value + 0x80)
	case 2:
		data[off] = byte(value)
		data[off+1] = byte(value >> 8)
	case 3:
		data[off] = byte(value)
		data[off+1] = byte(value >> 8)
		data[off+2] = byte(value >> 16)
	case 4:
		data[off] = byte(value)
		data[off+1] = byte(value >> 8)
		data[off+2] = byte(value >> 16)
		data[off+3] = byte(value >> 24)
	}
}

func clampSample(value, width int) int {
	limit := 1 << (width*8 - 1)
	if value >= limit {
		return limit - 1
	}
	if value < -limit {
		return -limit
	}
	return value
}
