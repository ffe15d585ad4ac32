package logging_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/kav/caerus/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileLogger(t *testing.T) (*logging.Service, *bytes.Buffer, string) {
	t.Helper()
	var console bytes.Buffer
	log := logging.NewLogger(&console)
	path := filepath.Join(t.TempDir(), "caerus.log")
	require.NoError(t, log.AttachFile(logging.FileConfig{Path: path}))
	t.Cleanup(func() { _ = log.Close() })
	return log, &console, path
}

func fileContents(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func currentLine() int {
	_, _, line, _ := runtime.Caller(1)
	return line
}

func TestCallSite_AttributesCaller(t *testing.T) {
	log, _, path := newFileLogger(t)

	line := currentLine() + 1
	log.Info("hello")

	want := fmt.Sprintf("callsite_test.go:%d:TestCallSite_AttributesCaller - hello", line)
	assert.Contains(t, fileContents(t, path), want)
}

func TestCallSite_ThroughSuppression(t *testing.T) {
	log, console, path := newFileLogger(t)

	line := currentLine() + 1
	log.Warn("quiet", logging.Suppress)

	_ = log.WithConsoleSuppressed(func() error {
		log.Error("inside")
		return nil
	})

	assert.Empty(t, console.String())
	out := fileContents(t, path)
	assert.Contains(t, out, fmt.Sprintf("callsite_test.go:%d:TestCallSite_ThroughSuppression - quiet", line))
	assert.Contains(t, out, fmt.Sprintf("callsite_test.go:%d:TestCallSite_ThroughSuppression.func1 - inside", line+3))
}

func TestCallSite_ThroughTime(t *testing.T) {
	log, _, path := newFileLogger(t)

	line := currentLine() + 1
	err := logging.Time(log, "noop", nil, func() error { return nil })
	require.NoError(t, err)

	assert.Contains(t, fileContents(t, path),
		fmt.Sprintf("callsite_test.go:%d:TestCallSite_ThroughTime - Start: noop(args = [])", line))
}

func TestCallSite_Explicit(t *testing.T) {
	log, _, path := newFileLogger(t)

	log.Info("moved", logging.At(logging.CallSite{File: "camera.go", Line: 7, Function: "Snapshot"}))

	assert.Contains(t, fileContents(t, path), "camera.go:7:Snapshot - moved")
}

func TestCaller(t *testing.T) {
	line := currentLine() + 1
	cs := logging.Caller(0)

	assert.Equal(t, line, cs.Line)
	assert.Equal(t, "TestCaller", cs.Function)
	assert.Equal(t, "callsite_test.go", filepath.Base(cs.File))
	assert.Equal(t, fmt.Sprintf("%s:%d:TestCaller", cs.File, line), cs.String())
}

func needsATest(log *logging.Service) {
	log.Untested("flaky on pi zero")
}

func TestUntested(t *testing.T) {
	log, console, _ := newFileLogger(t)

	needsATest(log)

	out := console.String()
	assert.Contains(t, out, "WARN - function: needsATest in file ")
	assert.Contains(t, out, "callsite_test.go:")
	assert.Contains(t, out, "requires a unit test 'flaky on pi zero'")
}
