// Command supportmesh meshes convex shapes described by their support
// functions and writes the result as STL or JSON for an external viewer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chazu/supportmesh/pkg/config"
	"github.com/chazu/supportmesh/pkg/export"
	"github.com/chazu/supportmesh/pkg/logging"
)

// options are the command line settings that are not part of the config file.
type options struct {
	configPath string
	shape      string
	scenePath  string
	watch      bool
}

func main() {
	var opts options
	cfg := config.Default()

	flag.StringVar(&opts.configPath, "config", "", "TOML config file")
	flag.StringVar(&opts.shape, "shape", "", "Built-in shape preset: "+strings.Join(presetNames(), ", "))
	flag.StringVar(&opts.scenePath, "scene", "", "Shape script (.lisp) to evaluate")
	flag.BoolVar(&opts.watch, "watch", false, "Re-evaluate the scene file whenever it changes")
	samples := flag.Int("samples", 0, "Support samples per shape (overrides config)")
	out := flag.String("out", "", "Output directory (overrides config)")
	format := flag.String("format", "", "Output format: stl or json (overrides config)")
	kern := flag.String("kernel", "", "Geometry kernel: sampled or sdfx (overrides config)")
	flag.Parse()

	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			logging.Logger().Fatal("loading config", "err", err)
		}
		cfg = loaded
	}
	if *samples > 0 {
		cfg.Samples = *samples
	}
	if *out != "" {
		cfg.OutputDir = *out
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *kern != "" {
		cfg.Kernel = *kern
	}
	if err := cfg.Normalize(); err != nil {
		logging.Logger().Fatal("invalid settings", "err", err)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Logger().Fatal("invalid settings", "err", err)
	}

	if err := run(cfg, opts); err != nil {
		logging.Logger().Fatal(err)
	}
}

// run performs one evaluation, then keeps watching if asked to.
func run(cfg config.Config, opts options) error {
	if opts.shape != "" && opts.scenePath != "" {
		return errors.New("-shape and -scene are mutually exclusive")
	}
	if opts.watch && opts.scenePath == "" {
		return errors.New("-watch requires -scene")
	}

	app := NewAppWithConfig(cfg)

	if opts.scenePath == "" {
		name := opts.shape
		if name == "" {
			name = "ball"
		}
		sc, err := presetScene(name, cfg.Samples)
		if err != nil {
			return err
		}
		_, err = writeResult(cfg, app.EvaluateScene(sc))
		return err
	}

	if _, err := evaluateFile(app, cfg, opts.scenePath); err != nil && !opts.watch {
		return err
	}
	if !opts.watch {
		return nil
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-stop
		close(done)
	}()
	return watch(opts.scenePath, done, func() {
		if _, err := evaluateFile(app, cfg, opts.scenePath); err != nil {
			logging.Errorf("%v", err)
		}
	})
}

// evaluateFile reads and evaluates a script, then writes its meshes.
func evaluateFile(app *App, cfg config.Config, path string) ([]string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	return writeResult(cfg, app.Evaluate(string(source)))
}

// writeResult reports warnings and errors, then writes one file per mesh.
func writeResult(cfg config.Config, result EvalResult) ([]string, error) {
	logger := logging.With("eval", result.ID)
	for _, w := range result.Warnings {
		logger.Warn(w.Message, "shape", w.Shape)
	}
	if !result.OK() {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msg := e.Message
			switch {
			case e.Line > 0:
				msg = fmt.Sprintf("line %d: %s", e.Line, msg)
			case e.Shape != "":
				msg = fmt.Sprintf("shape %q: %s", e.Shape, msg)
			}
			msgs = append(msgs, msg)
		}
		return nil, fmt.Errorf("evaluation failed:\n  %s", strings.Join(msgs, "\n  "))
	}

	var paths []string
	for _, m := range result.Meshes {
		path, err := export.WriteFile(cfg.OutputDir, m.Mesh(), cfg.Format)
		if err != nil {
			return paths, err
		}
		logger.Info("wrote mesh", "shape", m.Name, "triangles", len(m.Indices)/3, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
