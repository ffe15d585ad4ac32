package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/kav/caerus/logging"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		err     error
		want    int
		console string
	}{
		{"success", context.Background(), nil, 0, ""},
		{"failure", context.Background(), errors.New("no cameras available"), 1, "ERROR - no cameras available\n"},
		{"cancelled error", context.Background(), context.Canceled, 130, "WARN - interrupted\n"},
		{"camera killed by signal", cancelled, errors.New("signal: killed"), 130, "WARN - interrupted\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var console bytes.Buffer
			log := logging.NewLogger(&console)

			assert.Equal(t, tt.want, exitCode(tt.ctx, log, tt.err))
			assert.Equal(t, tt.console, console.String())
		})
	}
}
