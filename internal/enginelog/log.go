// Package enginelog implements the engine's leveled logger.
//
// What: four levels (Debug, Info, Warn, Error), a package-level default
// Logger, and a minimal Logger type wrapping the standard log.Logger with a
// level gate, grounded on cyw0ng95-sqlvibe's internal/log package.
// How: writes go through log.Logger so callers can still redirect output
// with SetOutput; nothing here reaches for a third-party logging library
// because none appears anywhere in the retrieved corpus — every example
// that logs at all does so with the standard library logger, so that is
// what this ambient concern follows too.
package enginelog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a logging severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled messages through a standard library log.Logger,
// dropping anything below its configured minimum level.
type Logger struct {
	min Level
	out *log.Logger
}

// New returns a Logger writing to os.Stderr at the given minimum level.
func New(min Level) *Logger {
	return &Logger{min: min, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (lg *Logger) log(lvl Level, format string, args ...any) {
	if lvl < lg.min {
		return
	}
	lg.out.Printf("[%s] %s", lvl, fmt.Sprintf(format, args...))
}

func (lg *Logger) Debugf(format string, args ...any) { lg.log(Debug, format, args...) }
func (lg *Logger) Infof(format string, args ...any)  { lg.log(Info, format, args...) }
func (lg *Logger) Warnf(format string, args ...any)  { lg.log(Warn, format, args...) }
func (lg *Logger) Errorf(format string, args ...any) { lg.log(Error, format, args...) }

// SetMinLevel changes the minimum level a Logger emits.
func (lg *Logger) SetMinLevel(min Level) { lg.min = min }

// SetOutput redirects where this Logger writes.
func (lg *Logger) SetOutput(w io.Writer) { lg.out.SetOutput(w) }

// Default is the package-level logger used when no Logger is supplied
// explicitly.
var Default = New(Info)
