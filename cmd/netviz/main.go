// Command netviz lays out a course network in the terminal. Mouse motion
// hovers, clicks select, and the layout follows the window size.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dd0wney/cluso-netgraph/pkg/config"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
	"github.com/dd0wney/cluso-netgraph/pkg/health"
	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/metrics"
	"github.com/dd0wney/cluso-netgraph/pkg/recording"
	"github.com/dd0wney/cluso-netgraph/pkg/render"
	"github.com/dd0wney/cluso-netgraph/pkg/stream"
)

//go:embed courses.yaml
var demoPayload []byte

func main() {
	var (
		configFile     = flag.String("config", "", "YAML configuration file")
		graphFile      = flag.String("graph", "", "Graph payload (YAML or JSON); the demo course network when empty")
		categories     = flag.String("categories", "", "Comma-separated categories to highlight")
		metricsAddr    = flag.String("metrics-addr", "", "Serve metrics, health and the frame stream on this address, e.g. :9090")
		recordFile     = flag.String("record", "", "Append every rendered frame to this recording")
		exportFile     = flag.String("export", "", "Run headless and write the final frame as JSON to this file")
		exportDuration = flag.Duration("export-duration", 2*time.Second, "Simulated time to run before exporting")
		replayFile     = flag.String("replay", "", "Print a summary of every frame in a recording and exit")
	)
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *categories != "" {
		cfg.Interaction.SelectedCategories = splitList(*categories)
	}

	headless := *exportFile != "" || *replayFile != ""
	logger, closeLog, err := newLogger(cfg, !headless)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closeLog()
	logging.SetDefaultLogger(logger)

	if *replayFile != "" {
		if err := replay(*replayFile, os.Stdout); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		return
	}

	g, err := loadGraph(*graphFile)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}

	registry := metrics.NewRegistry()
	checker := health.NewChecker()
	checker.RegisterCheck("memory", health.MemoryCheck(0))
	var hub *stream.Hub
	if *metricsAddr != "" {
		hub = stream.NewHub(logger)
		defer hub.Close()
		srv := serveHTTP(*metricsAddr, registry, checker, hub, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	var recorder *recording.Writer
	if *recordFile != "" {
		recorder, err = recording.Create(*recordFile)
		if err != nil {
			log.Fatalf("Failed to open recording: %v", err)
		}
		defer func() {
			if err := recorder.Err(); err != nil {
				logger.Error("recording failed", logging.Error(err))
			}
			if err := recorder.Close(); err != nil {
				logger.Error("failed to close recording", logging.Error(err))
			}
		}()
	}

	if *exportFile != "" {
		out, err := os.Create(*exportFile)
		if err != nil {
			log.Fatalf("Failed to create export file: %v", err)
		}
		defer out.Close()

		frame, err := export(g, cfg, *exportDuration, out, exportOptions{
			recorder: optionalRenderer(recorder),
			logger:   logger,
			metrics:  registry,
		})
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Exported frame %d (%d nodes, %d links) to %s\n",
			frame.Sequence, len(frame.Nodes), len(frame.Links), *exportFile)
		return
	}

	out := outputs{logger: logger, metrics: registry, health: checker}
	if r := optionalRenderer(recorder); r != nil {
		out.renderers = append(out.renderers, r)
	}
	if hub != nil {
		out.renderers = append(out.renderers, hub)
		out.listeners = append(out.listeners, hub.Listen)
	}
	if err := runTUI(g, cfg, out); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadGraph(path string) (*graph.Graph, error) {
	if path != "" {
		return graph.LoadFile(path)
	}
	return graph.Decode(bytes.NewReader(demoPayload))
}

// newLogger logs to the configured file. Without one, the TUI stays quiet so
// the screen is not overwritten, and headless modes log to stderr.
func newLogger(cfg *config.Config, tui bool) (logging.Logger, func(), error) {
	level := cfg.LogLevel()
	switch {
	case cfg.Logging.File != "":
		l, err := logging.NewFileLogger(cfg.Logging.File, level)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { _ = l.Close() }, nil
	case tui:
		return logging.NewNopLogger(), func() {}, nil
	default:
		return logging.NewJSONLogger(os.Stderr, level), func() {}, nil
	}
}

// serveHTTP exposes /metrics, the health endpoints and the /frames
// websocket stream
func serveHTTP(addr string, registry *metrics.Registry, checker *health.Checker, hub *stream.Hub, logger logging.Logger) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))
	r.Method(http.MethodGet, "/metrics", registry.Handler())
	checker.Register(r)
	hub.Routes(r)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving http", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Error(err))
		}
	}()
	return srv
}

// optionalRenderer keeps a nil *recording.Writer from becoming a non-nil
// interface
func optionalRenderer(w *recording.Writer) render.Renderer {
	if w == nil {
		return nil
	}
	return w
}
