package logging_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kav/caerus/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countLines counts the lines of out containing every one of parts.
func countLines(out string, parts ...string) int {
	n := 0
	for _, l := range strings.Split(out, "\n") {
		all := true
		for _, p := range parts {
			if !strings.Contains(l, p) {
				all = false
				break
			}
		}
		if all {
			n++
		}
	}
	return n
}

func TestTime_Success(t *testing.T) {
	log, console, path := newFileLogger(t)

	err := logging.Time(log, "capture", []any{"/tmp/a.jpg"}, func() error { return nil })
	require.NoError(t, err)

	out := fileContents(t, path)
	assert.Contains(t, out, " - DEBUG - ")
	assert.Contains(t, out, "Start: capture(args = [/tmp/a.jpg])")
	assert.Contains(t, out, "End: capture(args = [/tmp/a.jpg]) took ")
	assert.Empty(t, console.String(), "timing is logged at debug")
}

func TestTime_FailureIsReturnedUnchanged(t *testing.T) {
	log, _, path := newFileLogger(t)
	boom := errors.New("runtime failure")

	err := logging.Time(log, "explode", []any{1, 2}, func() error { return boom })

	assert.True(t, err == boom, "the original error value is returned")
	out := fileContents(t, path)
	assert.Equal(t, 1, countLines(out, " - CRITICAL - "))
	assert.Equal(t, 1, countLines(out, " - CRITICAL - ", " - exception found runtime failure"))
	assert.Equal(t, 1, countLines(out, " - DEBUG - ", " - End (with exception): explode(args = [1 2]) took "))
	assert.Zero(t, countLines(out, "End: explode"))
}

func TestTime_PanicIsReraised(t *testing.T) {
	log, _, path := newFileLogger(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = logging.Time(log, "explode", nil, func() error { panic("kaboom") })
	})

	out := fileContents(t, path)
	assert.Equal(t, 1, countLines(out, " - CRITICAL - ", " - exception found panic: kaboom"))
	assert.Equal(t, 1, countLines(out, " - DEBUG - ", " - End (with exception): explode(args = []) took "))
}

func TestTimeValue_TruncatesArgsAndReturnsResult(t *testing.T) {
	log, _, path := newFileLogger(t)

	got, err := logging.TimeValue(log, "sum", []any{1, 2, 3, 4, 5, 6, 7}, func() (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	out := fileContents(t, path)
	assert.Contains(t, out, "truncating args from len 7 to 5")
	assert.Contains(t, out, "Start: sum(args = [1 2 3 4 5])")
	assert.Contains(t, out, "End: sum(args = [1 2 3 4 5]) took ")
}
