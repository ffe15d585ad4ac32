package logging

import (
	stderrs "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

var (
	// ErrFileSinkAttached is returned by AttachFile when a file sink is
	// already attached. Call Close first to replace it.
	ErrFileSinkAttached = stderrs.New("file sink already attached")
	// ErrNoFileSink is returned by SetFileLevel before AttachFile.
	ErrNoFileSink = stderrs.New("no file sink attached")
)

// Service is the logging facade. Create one per process with NewLogger and
// hand it to every component that logs. The console sink always exists; the
// file sink exists between AttachFile and Close.
//
// Both sink levels are atomics, so reads never race. Suppression windows
// opened concurrently from several goroutines may still restore the console
// level out of order.
type Service struct {
	console *sink
	file    atomic.Pointer[fileSink]
	logger  atomic.Pointer[zerolog.Logger]
	pid     int

	// mu serializes AttachFile and Close.
	mu sync.Mutex
}

// NewLogger returns a Service whose console sink writes to out (stderr when
// out is nil) at LevelInfo.
func NewLogger(out io.Writer) *Service {
	if out == nil {
		out = os.Stderr
	}
	s := &Service{
		console: newSink(newConsoleWriter(out), LevelInfo),
		pid:     os.Getpid(),
	}
	s.rebuild()
	return s
}

// AttachFile adds the rotating file sink. The parent directory of cfg.Path
// is created with mode 0700 when missing; a failure to do so is logged at
// critical level and returned.
func (s *Service) AttachFile(cfg FileConfig) error {
	const op errors.Op = "logging.Service.AttachFile"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}

	cfg = cfg.withDefaults()
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file.Load() != nil {
		return ErrFileSinkAttached
	}

	if err := s.makeDir(filepath.Dir(cfg.Path)); err != nil {
		return err
	}

	rot, err := newRotator(cfg)
	if err != nil {
		s.Exception("Unable to open log file", cfg.Path, err)
		return errors.New(op).Err(err).Msg(errMsgOpenFile)
	}

	s.file.Store(&fileSink{sink: newSink(newFileWriter(rot), cfg.Level), rot: rot})
	s.rebuild()
	return nil
}

// makeDir creates dir with owner-only permissions if it does not exist.
func (s *Service) makeDir(dir string) error {
	const op errors.Op = "logging.Service.makeDir"
	if dir == emptyString {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}

	s.Debug("creating directory:", dir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		s.Exception(fmt.Sprintf("Unable to make directory '%s'", dir), err)
		return errors.New(op).Err(err).Msg(errMsgMakeDir)
	}
	return nil
}

// SetConsoleLevel changes the console sink's minimum level.
func (s *Service) SetConsoleLevel(level Level) {
	if s == nil {
		return
	}
	s.Debug("setting console log level to", level)
	s.console.SetLevel(level)
}

// SetFileLevel changes the file sink's minimum level.
func (s *Service) SetFileLevel(level Level) error {
	if s == nil {
		return ErrNoFileSink
	}
	fs := s.file.Load()
	if fs == nil {
		return ErrNoFileSink
	}
	s.Debug("setting file log level to", level)
	fs.SetLevel(level)
	return nil
}

// ConsoleLevel reports the console sink's minimum level.
func (s *Service) ConsoleLevel() Level {
	if s == nil {
		return LevelOff
	}
	return s.console.Level()
}

// FileLevel reports the file sink's minimum level, and false when no file
// sink is attached.
func (s *Service) FileLevel() (Level, bool) {
	if s == nil {
		return LevelOff, false
	}
	fs := s.file.Load()
	if fs == nil {
		return LevelOff, false
	}
	return fs.Level(), true
}

// Close detaches and closes the file sink. It's safe to call Close multiple
// times; the console sink keeps working afterwards.
func (s *Service) Close() error {
	const op errors.Op = "logging.Service.Close"
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fs := s.file.Swap(nil)
	if fs == nil {
		return nil
	}
	s.rebuild()
	if err := fs.rot.Close(); err != nil {
		return errors.New(op).Err(err).Msg(errMsgCloseFile)
	}
	return nil
}

func (s *Service) Debug(msg any, args ...any) { s.log(LevelDebug, false, msg, args) }

func (s *Service) Info(msg any, args ...any) { s.log(LevelInfo, false, msg, args) }

func (s *Service) Warn(msg any, args ...any) { s.log(LevelWarn, false, msg, args) }

func (s *Service) Error(msg any, args ...any) { s.log(LevelError, false, msg, args) }

// Critical logs at the highest level. When an error is among args its
// chain and the current goroutine stack are appended to the message.
func (s *Service) Critical(msg any, args ...any) { s.log(LevelCritical, false, msg, args) }

// Exception is Critical for use while handling a failure: the goroutine
// stack is always appended.
func (s *Service) Exception(msg any, args ...any) { s.log(LevelCritical, true, msg, args) }
