// Package logging provides component loggers for dumplist. Every logger
// writes to a rotating log file and, when enabled, to stderr. A logger
// bound to a Run tags its lines with the run ID the history entry of that
// run is recorded under.
//
//	if err := logging.Init(logging.DefaultConfig()); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	run := logging.NewRun("update")
//	logger := logging.Get("reconcile").ForRun(run)
//	logger.Info("listing written", "entries", 42)
//	logger.Finish(nil)
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Config configures the logging system.
type Config struct {
	// Level is the file log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Rotation configures log file rotation.
	Rotation RotationConfig

	// Components maps component names (reconcile, touch, walker, history)
	// to a file level replacing Level.
	Components map[string]string

	// ConsoleLevel enables console output at the given level. Empty
	// disables it.
	ConsoleLevel string

	// Console overrides the console destination. Nil means os.Stderr.
	Console io.Writer
}

// DefaultConfig returns info-level file logging under the XDG state
// directory with default rotation and no console output.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Path:     DefaultLogPath(),
		Rotation: DefaultRotationConfig(),
	}
}

// DefaultLogPath returns $XDG_STATE_HOME/dumplist/dumplist.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "dumplist", "dumplist.log")
}

// settings is a parsed Config.
type settings struct {
	level        Level
	components   map[string]Level
	console      io.Writer // nil disables console output
	consoleLevel Level
}

func parseConfig(cfg Config) (settings, error) {
	var s settings
	var err error

	if s.level, err = ParseLevel(cfg.Level); err != nil {
		return s, fmt.Errorf("parsing log level: %w", err)
	}

	s.components = make(map[string]Level, len(cfg.Components))
	for comp, name := range cfg.Components {
		lvl, err := ParseLevel(name)
		if err != nil {
			return s, fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		s.components[comp] = lvl
	}

	if cfg.ConsoleLevel != "" {
		if s.consoleLevel, err = ParseLevel(cfg.ConsoleLevel); err != nil {
			return s, fmt.Errorf("parsing console level: %w", err)
		}
		s.console = cfg.Console
		if s.console == nil {
			s.console = os.Stderr
		}
	}
	return s, nil
}

// registry holds the process-wide writer and the loggers handed out by
// Get. writer is nil until Init and after Close.
type registry struct {
	mu      sync.RWMutex
	writer  *RotatingWriter
	cfg     settings
	loggers map[string]*Logger
}

var global = &registry{loggers: make(map[string]*Logger)}

// Init opens the log file and rebuilds every logger handed out so far.
// Calling Init again closes the previous file first. Until Init succeeds,
// loggers discard everything.
func Init(cfg Config) error {
	s, err := parseConfig(cfg)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if err := global.closeWriter(); err != nil {
		return err
	}

	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}
	global.writer = writer
	global.cfg = s

	// Loggers cached before Init were silent; replace them so later Get
	// calls return loggers wired to the new file.
	global.loggers = make(map[string]*Logger)
	return nil
}

// Get returns the logger for component, creating it on first use.
func Get(component string) *Logger {
	global.mu.RLock()
	logger, ok := global.loggers[component]
	global.mu.RUnlock()
	if ok {
		return logger
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if logger, ok := global.loggers[component]; ok {
		return logger
	}
	logger = global.build(component)
	global.loggers[component] = logger
	return logger
}

// Close flushes and closes the log file. Loggers obtained afterwards
// discard everything until the next Init.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	err := global.closeWriter()
	global.cfg = settings{}
	global.loggers = make(map[string]*Logger)
	return err
}

// closeWriter must be called with mu held.
func (r *registry) closeWriter() error {
	if r.writer == nil {
		return nil
	}
	err := r.writer.Close()
	r.writer = nil
	if err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// build must be called with mu held. The file output uses the component
// level when one is configured; the console output always uses the
// console level.
func (r *registry) build(component string) *Logger {
	logger := &Logger{component: component}
	if r.writer == nil {
		return logger
	}

	level := r.cfg.level
	if lvl, ok := r.cfg.components[component]; ok {
		level = lvl
	}
	logger.outs = append(logger.outs, log.NewWithOptions(r.writer, log.Options{
		Level:           level.charm(),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	}))

	if r.cfg.console != nil {
		logger.outs = append(logger.outs, log.NewWithOptions(r.cfg.console, log.Options{
			Level:  r.cfg.consoleLevel.charm(),
			Prefix: component,
		}))
	}
	return logger
}
