// Package log is a thin leveled-logging facade over op/go-logging. The
// renderer and trainer receive a Logger through their options so tests
// can swap in Nop; commands configure the process-wide sink and level.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

type Level logging.Level

const (
	Debug   = Level(logging.DEBUG)
	Info    = Level(logging.INFO)
	Notice  = Level(logging.NOTICE)
	Warning = Level(logging.WARNING)
	Error   = Level(logging.ERROR)
)

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:-8s} %{module}%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the named logger, creating it on first use.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// ParseLevel maps a level name from a config file or flag to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "notice":
		return Notice, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return Notice, fmt.Errorf("log: unknown level %q", name)
}

// SetSink redirects all logger output to sink.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveledBackend.SetLevel(logging.NOTICE, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel adjusts the verbosity of every registered logger.
func SetLevel(level Level) {
	leveledBackend.SetLevel(logging.Level(level), "")
}

// Nop discards everything sent to it. It is the default logger for
// library types whose callers did not supply one.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debug(...interface{})            {}
func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Info(...interface{})             {}
func (nopLogger) Infof(string, ...interface{})    {}
func (nopLogger) Notice(...interface{})           {}
func (nopLogger) Noticef(string, ...interface{})  {}
func (nopLogger) Warning(...interface{})          {}
func (nopLogger) Warningf(string, ...interface{}) {}
func (nopLogger) Error(...interface{})            {}
func (nopLogger) Errorf(string, ...interface{})   {}

func init() {
	SetSink(os.Stderr)
}
