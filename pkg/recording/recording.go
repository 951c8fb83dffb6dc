// Package recording stores rendered frames in an append-only log so a
// session can be replayed or inspected later.
//
// Each record is [Len:4][Data:N][Checksum:4], big-endian, where Data is the
// snappy-compressed JSON frame and Checksum is the IEEE CRC-32 of Data.
package recording

import (
	"errors"
)

var (
	// ErrChecksum is returned when a record's checksum does not match its data
	ErrChecksum = errors.New("recording: checksum mismatch")
	// ErrCorrupt is returned for truncated or undecodable records
	ErrCorrupt = errors.New("recording: corrupt record")
)

// MaxRecordSize bounds the compressed size of one record
const MaxRecordSize = 64 << 20

// Stats counts what a Writer has appended
type Stats struct {
	Frames            uint64
	BytesUncompressed uint64
	BytesCompressed   uint64
}

// CompressionRatio returns compressed/uncompressed bytes, or 0 before any write
func (s Stats) CompressionRatio() float64 {
	if s.BytesUncompressed == 0 {
		return 0
	}
	return float64(s.BytesCompressed) / float64(s.BytesUncompressed)
}
