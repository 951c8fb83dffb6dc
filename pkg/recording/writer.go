package recording

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sync"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-netgraph/pkg/render"
)

// Writer appends frames to a recording. It is safe for concurrent use and
// implements render.Renderer so it can sit directly behind a binding.
type Writer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	stats  Stats
	err    error
}

// NewWriter writes records to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Create opens path for appending, creating it if needed
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Append encodes and writes one frame. Records are flushed immediately.
func (w *Writer) Append(frame render.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame %d: %w", frame.Sequence, err)
	}
	compressed := snappy.Encode(nil, data)
	if len(compressed) > MaxRecordSize {
		return fmt.Errorf("frame %d is %d bytes compressed, limit %d", frame.Sequence, len(compressed), MaxRecordSize)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writeRecord(compressed); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", frame.Sequence, err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush recording: %w", err)
	}

	w.stats.Frames++
	w.stats.BytesUncompressed += uint64(len(data))
	w.stats.BytesCompressed += uint64(len(compressed))
	return nil
}

// Caller holds w.mu
func (w *Writer) writeRecord(data []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := w.w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], crc32.ChecksumIEEE(data))
	_, err := w.w.Write(trailer[:])
	return err
}

// Render appends the frame and keeps the first error for Err
func (w *Writer) Render(frame render.Frame) {
	if err := w.Append(frame); err != nil {
		w.mu.Lock()
		if w.err == nil {
			w.err = err
		}
		w.mu.Unlock()
	}
}

// Err returns the first error hit by Render
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Stats returns the counters so far
func (w *Writer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Close flushes and closes the underlying file, if the writer opened one
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		err := w.closer.Close()
		w.closer = nil
		return err
	}
	return nil
}
