package logging

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// sink is a zerolog.LevelWriter with its own minimum level. Records below
// the level are dropped without reaching the underlying writer.
type sink struct {
	out   io.Writer
	level atomic.Int32
}

func newSink(out io.Writer, level Level) *sink {
	s := &sink{out: out}
	s.level.Store(int32(level))
	return s
}

func (s *sink) Level() Level {
	return Level(s.level.Load())
}

func (s *sink) SetLevel(level Level) {
	s.level.Store(int32(level))
}

func (s *sink) accepts(level Level) bool {
	return level >= s.Level()
}

func (s *sink) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *sink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if !s.accepts(Level(level)) {
		return len(p), nil
	}
	return s.out.Write(p)
}

// fileSink pairs the file sink with the rotator it renders into.
type fileSink struct {
	*sink
	rot rotator
}

var recordFields = []string{
	zerolog.TimestampFieldName,
	threadFieldName,
	pidFieldName,
	zerolog.CallerFieldName,
}

// newConsoleWriter renders "LEVEL - message".
func newConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:           out,
		NoColor:       true,
		PartsOrder:    []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FieldsExclude: recordFields,
		FormatLevel:   formatLevel,
	}
}

// newFileWriter renders
// "timestamp - thread - LEVEL - pid - file:line:function - message".
func newFileWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			threadFieldName,
			zerolog.LevelFieldName,
			pidFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude:    recordFields,
		FormatTimestamp:  formatPart,
		FormatFieldValue: formatPart,
		FormatCaller:     formatPart,
		FormatLevel:      formatLevel,
	}
}

func formatPart(i interface{}) string {
	return fmt.Sprintf("%v -", i)
}

func formatLevel(i interface{}) string {
	if name, ok := i.(string); ok {
		if l, err := zerolog.ParseLevel(name); err == nil {
			return Level(l).String() + " -"
		}
	}
	return "???? -"
}
