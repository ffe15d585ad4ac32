package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// rebuild stores a logger fanning out to the console sink and, when
// attached, the file sink.
func (s *Service) rebuild() {
	writers := []io.Writer{s.console}
	if fs := s.file.Load(); fs != nil {
		writers = append(writers, fs.sink)
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...))
	s.logger.Store(&logger)
}

// enabled reports whether any sink would accept a record at level.
func (s *Service) enabled(level Level) bool {
	if s.console.accepts(level) {
		return true
	}
	fs := s.file.Load()
	return fs != nil && fs.accepts(level)
}

// log is the single emission path behind every public method. Frames of
// this package are skipped by resolveCallSite, so nesting depth here does
// not matter.
func (s *Service) log(level Level, forceTrace bool, msg any, args []any) {
	if s == nil {
		return
	}

	opts, args := splitOptions(args)
	if opts.suppress {
		defer s.suppressConsole()()
	}
	if !s.enabled(level) {
		return
	}

	logger := s.logger.Load()
	if logger == nil {
		return
	}

	cs := opts.callSite
	if cs == nil {
		resolved := resolveCallSite()
		cs = &resolved
	}

	text := formatMessage(msg, args)
	if level >= LevelCritical {
		if trace := traceText(forceTrace, args); trace != emptyString {
			text += "\n" + trace
		}
	}

	logger.WithLevel(zerolog.Level(level)).
		Str(zerolog.TimestampFieldName, time.Now().Format(timeLayout)).
		Str(threadFieldName, threadName()).
		Int(pidFieldName, s.pid).
		Str(zerolog.CallerFieldName, cs.String()).
		Msg(text)
}
