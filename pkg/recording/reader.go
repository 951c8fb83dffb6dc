package recording

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-netgraph/pkg/render"
)

// Reader reads frames back from a recording
type Reader struct {
	r      *bufio.Reader
	record int
}

// NewReader reads records from r
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next frame. It returns io.EOF at a clean end of input,
// ErrChecksum when a record fails its checksum and ErrCorrupt when a record
// is truncated or cannot be decoded.
func (r *Reader) Next() (render.Frame, error) {
	var frame render.Frame

	var header [4]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return frame, io.EOF
		}
		return frame, r.corrupt("short length header")
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > MaxRecordSize {
		return frame, r.corrupt(fmt.Sprintf("length %d exceeds limit", n))
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return frame, r.corrupt("truncated data")
	}
	var trailer [4]byte
	if _, err := io.ReadFull(r.r, trailer[:]); err != nil {
		return frame, r.corrupt("truncated checksum")
	}
	if crc32.ChecksumIEEE(data) != binary.BigEndian.Uint32(trailer[:]) {
		return frame, fmt.Errorf("record %d: %w", r.record, ErrChecksum)
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return frame, r.corrupt(err.Error())
	}
	if err := json.Unmarshal(decoded, &frame); err != nil {
		return frame, r.corrupt(err.Error())
	}
	r.record++
	return frame, nil
}

func (r *Reader) corrupt(reason string) error {
	return fmt.Errorf("record %d: %w: %s", r.record, ErrCorrupt, reason)
}

// Replay calls fn for every frame in the recording at path, stopping at the
// first error from the file or from fn
func Replay(path string, fn func(render.Frame) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	r := NewReader(f)
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}
