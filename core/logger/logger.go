// Package logger exposes the process-wide key/value logger used across modules.
//
//	logger.Info("AvailabilityService:ComputeGroupSchedule:Start", "members", 4)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level  string
	Format string // "console" or "json"
	Writer io.Writer
}

var (
	mu   sync.RWMutex
	root = newLogger(Options{Level: "debug", Format: "console"})
)

// Init replaces the root logger. Safe to call more than once.
func Init(opt Options) {
	l := newLogger(opt)
	mu.Lock()
	root = l
	mu.Unlock()
}

func newLogger(opt Options) zerolog.Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}
	return zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

func Debug(msg string, args ...any) { write(zerolog.DebugLevel, msg, args) }
func Info(msg string, args ...any)  { write(zerolog.InfoLevel, msg, args) }
func Warn(msg string, args ...any)  { write(zerolog.WarnLevel, msg, args) }
func Error(msg string, args ...any) { write(zerolog.ErrorLevel, msg, args) }

func write(level zerolog.Level, msg string, args []any) {
	mu.RLock()
	l := root
	mu.RUnlock()

	ev := l.WithLevel(level)
	if ev == nil {
		return
	}
	for _, f := range fields(args) {
		if err, ok := f.value.(error); ok {
			ev = ev.AnErr(f.key, err)
			continue
		}
		ev = ev.Interface(f.key, f.value)
	}
	ev.Msg(msg)
}

type field struct {
	key   string
	value any
}

// fields pairs args as key/value in argument order. A lone trailing value (or
// a non-string key) is kept under "error" when it is an error, otherwise under
// "arg<N>".
func fields(args []any) []field {
	out := make([]field, 0, len(args)/2+1)
	for i := 0; i < len(args); i++ {
		key, ok := args[i].(string)
		if ok && i+1 < len(args) {
			out = append(out, field{key, args[i+1]})
			i++
			continue
		}
		if err, isErr := args[i].(error); isErr {
			out = append(out, field{"error", err})
			continue
		}
		out = append(out, field{fmt.Sprintf("arg%d", i), args[i]})
	}
	return out
}
