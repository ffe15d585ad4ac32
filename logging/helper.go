package logging

import (
	"bytes"
	stderrs "errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// Level is the ordinal severity of a record. A sink accepts a record only if
// the record's level is at or above the sink's minimum level.
type Level int8

const (
	LevelDebug    = Level(zerolog.DebugLevel)
	LevelInfo     = Level(zerolog.InfoLevel)
	LevelWarn     = Level(zerolog.WarnLevel)
	LevelError    = Level(zerolog.ErrorLevel)
	LevelCritical = Level(zerolog.FatalLevel)
	// LevelOff is above every level a record can carry.
	LevelOff = Level(zerolog.Disabled)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	case LevelOff:
		return "OFF"
	default:
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
}

// ParseLevel parses a level name, case-insensitively. Besides the names
// printed by Level.String it accepts "warning" and zerolog's own names.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	case "OFF":
		return LevelOff, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return LevelOff, err
	}
	if l < zerolog.DebugLevel || l > zerolog.FatalLevel {
		return LevelOff, fmt.Errorf("unsupported level %q", level)
	}
	return Level(l), nil
}

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost operation identifier if available
//
// The traversal prefers Station-Manager DetailedError.Cause() and then
// falls back to stdlib errors.Unwrap. It guards against excessive depth
// and repeated messages to avoid cycles.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	const maxDepth = 50
	visited := 0
	seen := map[string]bool{}

	for err != nil && visited < maxDepth {
		visited++

		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, "")
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	if len(ops) > 0 {
		rootOp = ops[len(ops)-1]
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return strings.Join(chain, " -> ")
}

// traceText renders the failure information attached to critical records:
// one "Error chain" line per error found in args, then the goroutine stack.
// The stack is only included when an error was found or force is set.
func traceText(force bool, args []any) string {
	var b strings.Builder
	for _, a := range args {
		err, ok := a.(error)
		if !ok || err == nil {
			continue
		}
		chain, _, root, rootOp := buildErrorChain(err)
		b.WriteString("Error chain: ")
		b.WriteString(joinChain(chain))
		b.WriteByte('\n')
		b.WriteString("Root cause: ")
		b.WriteString(root)
		if rootOp != emptyString {
			b.WriteString(" (op " + rootOp + ")")
		}
		b.WriteByte('\n')
	}
	if b.Len() == 0 && !force {
		return emptyString
	}
	b.Write(bytes.TrimRight(debug.Stack(), "\n"))
	return b.String()
}

var goroutineSpace = []byte("goroutine ")

var stackBuf = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 64)
		return &buf
	},
}

// threadName names the goroutine emitting a record, e.g. "goroutine-1".
func threadName() string {
	bp := stackBuf.Get().(*[]byte)
	defer stackBuf.Put(bp)
	b := *bp
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, goroutineSpace)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		return "goroutine-" + string(b[:i])
	}
	return "goroutine-?"
}
