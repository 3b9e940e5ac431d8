package main

import (
	"fmt"
	"os"
	"time"

	"github.com/arthur-debert/hangar/pkg/config"
	"github.com/arthur-debert/hangar/pkg/engine"
	"github.com/arthur-debert/hangar/pkg/filesystem"
	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/paths"
	"github.com/arthur-debert/hangar/pkg/types"
	"github.com/arthur-debert/hangar/pkg/ui"
	"github.com/arthur-debert/hangar/pkg/worker"
)

// app wires config, paths, engine and the worker queue together for the
// lifetime of one command invocation.
type app struct {
	cfg     *config.Config
	paths   paths.Paths
	engine  *engine.Engine
	queue   *worker.Queue
	format  ui.Format
	timeout time.Duration
}

// newApp locates the simulator, loads configuration and builds the engine.
// A freshly detected packages path is persisted so the next invocation skips
// detection; persistence failure is not fatal.
func newApp(simPackagesFlag string, format ui.Format, timeout time.Duration) (*app, error) {
	logger := logging.GetLogger("cmd")

	cfg, err := config.Load(paths.DefaultConfigFilePath())
	if err != nil {
		return nil, err
	}

	simPackages := simPackagesFlag
	fromConfig := false
	if simPackages == "" {
		simPackages, fromConfig, err = paths.FindSimPackages(cfg.SimPackagesPath())
		if err != nil {
			return nil, err
		}
	}

	p, err := paths.New(simPackages)
	if err != nil {
		return nil, err
	}

	if !fromConfig {
		if err := cfg.SetSimPackagesPath(simPackages); err != nil {
			logger.Warn().Err(err).Msg("Could not persist detected packages path")
		}
	}

	return &app{
		cfg:     cfg,
		paths:   p,
		engine:  engine.New(filesystem.NewOS(), p),
		queue:   worker.New(1),
		format:  ui.Resolve(format, os.Stdout),
		timeout: timeout,
	}, nil
}

// run executes an engine operation on the worker queue.
func (a *app) run(name string, task worker.Task) error {
	return a.queue.SubmitWait(name, task, a.timeout)
}

func (a *app) close() {
	a.queue.Close()
}

// status prints one operation outcome line to stdout.
func (a *app) status(s ui.Status, format string, args ...interface{}) {
	fmt.Println(ui.RenderStatus(s, fmt.Sprintf(format, args...), a.format))
}

// reporter returns a progress reporter writing to stderr on verbose runs,
// or nil when progress is not wanted.
func (a *app) reporter(verbosity int) types.Reporter {
	if verbosity == 0 {
		return nil
	}
	return &consoleReporter{}
}

// consoleReporter prints progress messages to stderr.
type consoleReporter struct{}

func (c *consoleReporter) Message(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (c *consoleReporter) Percent(done, total int) {
	if total > 0 {
		fmt.Fprintf(os.Stderr, "%d/%d\n", done, total)
	}
}
