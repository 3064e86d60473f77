// Package logging is the small leveled logger shared by the viewer, the web
// dashboard and the reader CLI.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel orders messages from chatty (LevelDebug) to severe (LevelError).
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var byName = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var tags = [...]string{LevelDebug: "DEBUG", LevelInfo: "INFO", LevelWarn: "WARN", LevelError: "ERROR"}

var threshold atomic.Int32

func init() { threshold.Store(int32(LevelInfo)) }

var sink = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

// SetLogLevel switches the threshold to the named level, case-insensitive.
// It returns false and keeps the old threshold for an unknown name.
func SetLogLevel(name string) bool {
	l, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if ok {
		threshold.Store(int32(l))
	}
	return ok
}

// SetOutput sends log lines to w.
func SetOutput(w io.Writer) { sink.SetOutput(w) }

// GetLogLevel reports the active threshold.
func GetLogLevel() LogLevel { return LogLevel(threshold.Load()) }

func (l LogLevel) String() string {
	if l < LevelDebug || int(l) >= len(tags) {
		return tags[LevelInfo]
	}
	return tags[l]
}

func emit(l LogLevel, format string, args []interface{}) {
	if l < GetLogLevel() {
		return
	}
	msg := format
	// without args the message is printed as is, % included
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	sink.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { emit(LevelDebug, format, a) }
func Infof(format string, a ...interface{})  { emit(LevelInfo, format, a) }
func Warnf(format string, a ...interface{})  { emit(LevelWarn, format, a) }
func Errorf(format string, a ...interface{}) { emit(LevelError, format, a) }

// TimeTrack logs at debug level how long the phase started at start took.
//
//	defer logging.TimeTrack(time.Now(), "load datasets")
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
