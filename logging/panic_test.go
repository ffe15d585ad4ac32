package logging_test

import (
	"bytes"
	"testing"

	"github.com/kav/caerus/logging"
	"github.com/stretchr/testify/assert"
)

func TestCapturePanic_LogsAndRepanics(t *testing.T) {
	log, console, path := newFileLogger(t)

	assert.PanicsWithValue(t, "camera on fire", func() {
		defer log.CapturePanic()
		panic("camera on fire")
	})

	out := console.String()
	assert.Contains(t, out, "CRITICAL - Uncaught Exception\n")
	assert.Contains(t, out, "string: camera on fire")
	assert.Contains(t, fileContents(t, path), "Uncaught Exception")

	_, attached := log.FileLevel()
	assert.False(t, attached, "file sink is closed before the panic continues")
}

func TestCapturePanic_NoPanic(t *testing.T) {
	var console bytes.Buffer
	log := logging.NewLogger(&console)

	assert.NotPanics(t, func() {
		defer log.CapturePanic()
	})
	assert.Empty(t, console.String())
}
