package logging

import (
	"github.com/charmbracelet/log"
)

// Logger writes the lines of one component to every configured output.
// A Logger obtained before Init has no outputs and discards everything.
type Logger struct {
	component string
	outs      []*log.Logger
	run       *Run
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args) }

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }

// Component returns the component name of the logger.
func (l *Logger) Component() string {
	return l.component
}

// Run returns the run the logger is bound to, or nil.
func (l *Logger) Run() *Run {
	return l.run
}

// With returns a logger that adds args to every line.
func (l *Logger) With(args ...any) *Logger {
	outs := make([]*log.Logger, len(l.outs))
	for i, out := range l.outs {
		outs[i] = out.With(args...)
	}
	return &Logger{component: l.component, outs: outs, run: l.run}
}

// ForRun returns a logger whose lines carry the short ID and operation of
// r. Binding a logger that is already bound replaces the run but keeps the
// fields of the earlier one.
func (l *Logger) ForRun(r Run) *Logger {
	bound := l.With(r.fields()...)
	bound.run = &r
	return bound
}

// Finish logs the end of the bound run with its duration: at info when
// err is nil and at error otherwise. It is a no-op for an unbound logger.
func (l *Logger) Finish(err error) {
	if l.run == nil {
		return
	}
	if err != nil {
		l.Error("run failed", "elapsed", l.run.Elapsed(), "error", err)
		return
	}
	l.Info("run finished", "elapsed", l.run.Elapsed())
}

func (l *Logger) log(level Level, msg string, args []any) {
	for _, out := range l.outs {
		logTo(out, level, msg, args)
	}
}

// logTo writes msg to out at level. Lines below the threshold of out are
// dropped by out itself.
func logTo(out *log.Logger, level Level, msg string, args []any) {
	switch level {
	case LevelDebug:
		out.Debug(msg, args...)
	case LevelInfo:
		out.Info(msg, args...)
	case LevelWarn:
		out.Warn(msg, args...)
	case LevelError:
		out.Error(msg, args...)
	}
}
