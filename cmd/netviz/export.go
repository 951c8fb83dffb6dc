package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dd0wney/cluso-netgraph/pkg/config"
	"github.com/dd0wney/cluso-netgraph/pkg/eventloop"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/metrics"
	"github.com/dd0wney/cluso-netgraph/pkg/recording"
	"github.com/dd0wney/cluso-netgraph/pkg/render"
)

type exportOptions struct {
	recorder render.Renderer
	logger   logging.Logger
	metrics  *metrics.Registry
}

// export runs the layout on virtual time for d and writes the final frame
// to out as indented JSON
func export(g *graph.Graph, cfg *config.Config, d time.Duration, out io.Writer, opts exportOptions) (render.Frame, error) {
	clock := eventloop.NewManual()
	b := render.NewBinding(g, cfg.Viewport.Viewport(), clock, cfg.Binding(),
		render.WithRenderer(opts.recorder),
		render.WithLogger(opts.logger),
		render.WithMetrics(opts.metrics),
		render.WithSelectedCategories(cfg.Interaction.SelectedCategories),
	)
	if err := b.Mount(); err != nil {
		return render.Frame{}, err
	}
	clock.Advance(d)
	frame := b.Snapshot()
	b.Unmount()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(frame); err != nil {
		return frame, fmt.Errorf("failed to write frame: %w", err)
	}
	return frame, nil
}

// replay prints one line per recorded frame
func replay(path string, out io.Writer) error {
	return recording.Replay(path, func(f render.Frame) error {
		focus := "-"
		if f.Focus != nil {
			focus = f.Focus.Kind + ":" + f.Focus.Key
		}
		_, err := fmt.Fprintf(out, "seq=%d viewport=%s nodes=%d links=%d cells=%d focus=%s %s\n",
			f.Sequence, f.Viewport, len(f.Nodes), len(f.Links), len(f.Cells), focus,
			strings.TrimSpace(f.Description))
		return err
	})
}
