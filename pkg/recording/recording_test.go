package recording

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/render"
)

func sampleFrame(seq uint64) render.Frame {
	return render.Frame{
		Session:  "session-1",
		Sequence: seq,
		Viewport: geom.Viewport{Width: 800, Height: 600},
		Nodes: []render.NodeFrame{
			{Key: "p1", Title: "Intro", X: 200.125, Y: 150, LabelOffset: -18,
				Style: render.NodeStyle{Radius: 9, Fill: "#eee", Stroke: "#ffd131", StrokeWidth: 5, Opacity: 1}},
			{Key: "c1", X: 400, Y: 150, Leaf: true, LabelRotation: -30},
		},
		Links: []render.LinkFrame{
			{Key: "l1", Source: geom.Point{X: 200.125, Y: 150}, Target: geom.Point{X: 400, Y: 150},
				Style: render.LinkStyle{Stroke: "#888888", Width: 1.5, Opacity: 0.2, Dashed: true}},
		},
		Cells: [][]geom.Point{{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 300, Y: 600}}},
		Focus: &render.FocusFrame{Key: "p1", Kind: "node", Group: 1},
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for seq := uint64(1); seq <= 3; seq++ {
		require.NoError(t, w.Append(sampleFrame(seq)))
	}

	stats := w.Stats()
	assert.Equal(t, uint64(3), stats.Frames)
	assert.Greater(t, stats.BytesUncompressed, uint64(0))
	assert.Greater(t, stats.CompressionRatio(), 0.0)

	r := NewReader(&buf)
	for seq := uint64(1); seq <= 3; seq++ {
		got, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, sampleFrame(seq), got)
	}
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestEmptyRecording(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil)).Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, Stats{}.CompressionRatio())
}

func encoded(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Append(sampleFrame(1)))
	return buf.Bytes()
}

func TestChecksumMismatch(t *testing.T) {
	data := encoded(t)
	data[6] ^= 0xff

	_, err := NewReader(bytes.NewReader(data)).Next()
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestCorruptRecords(t *testing.T) {
	data := encoded(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", data[:2]},
		{"truncated data", data[:len(data)/2]},
		{"missing checksum", data[:len(data)-4]},
		{"oversized length", []byte{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data)).Next()
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.False(t, errors.Is(err, io.EOF))
		})
	}
}

func TestWriterAsRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.rec")

	w, err := Create(path)
	require.NoError(t, err)
	var renderer render.Renderer = w
	renderer.Render(sampleFrame(1))
	renderer.Render(sampleFrame(2))
	require.NoError(t, w.Err())
	require.NoError(t, w.Close())

	// reopening appends
	w, err = Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(sampleFrame(3)))
	require.NoError(t, w.Close())

	var seqs []uint64
	require.NoError(t, Replay(path, func(f render.Frame) error {
		seqs = append(seqs, f.Sequence)
		return nil
	}))
	assert.Equal(t, []uint64{1, 2, 3}, seqs)

	stop := errors.New("stop")
	err = Replay(path, func(render.Frame) error { return stop })
	assert.ErrorIs(t, err, stop)

	assert.Error(t, Replay(filepath.Join(t.TempDir(), "missing.rec"), func(render.Frame) error { return nil }))
}
