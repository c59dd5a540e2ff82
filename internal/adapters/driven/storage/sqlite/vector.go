package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vectors are stored as an opaque BLOB: a little-endian int32 element
// count followed by that many IEEE-754 float32 values. Write and read
// must stay symmetric; the count prefix lets reads reject truncated
// blobs instead of silently mis-slicing.

// encodeVector converts a []float32 to its BLOB form.
func encodeVector(floats []float32) []byte {
	buf := make([]byte, 4+len(floats)*4)
	binary.LittleEndian.PutUint32(buf, uint32(len(floats)))
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[4+i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector converts a BLOB back to []float32.
func decodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("vector blob too short: %d bytes", len(data))
	}

	count := int(binary.LittleEndian.Uint32(data))
	if len(data) != 4+count*4 {
		return nil, fmt.Errorf("vector blob length %d does not match count %d", len(data), count)
	}

	floats := make([]float32, count)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+i*4:]))
	}
	return floats, nil
}
