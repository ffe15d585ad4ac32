package timelapse

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/kav/caerus/logging"
)

// Camera takes one still image and writes it to dest. A hardware or driver
// failure is returned as an error.
type Camera interface {
	Capture(ctx context.Context, dest string) error
}

const (
	DefaultWidth  = 3280
	DefaultHeight = 2464
	DefaultWarmUp = 2 * time.Second
)

// commandRunner runs name with args and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// StillCamera drives the Raspberry Pi camera through a libcamera-still
// compatible command.
type StillCamera struct {
	Command string
	Width   int
	Height  int
	// WarmUp is how long the sensor runs before the frame is taken.
	WarmUp time.Duration
	Log    logging.Logger

	run commandRunner
}

// NewStillCamera returns a camera using command at the full sensor
// resolution with the default warm-up.
func NewStillCamera(command string, log logging.Logger) *StillCamera {
	return &StillCamera{
		Command: command,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		WarmUp:  DefaultWarmUp,
		Log:     log,
	}
}

func (c *StillCamera) args(dest string) []string {
	return []string{
		"--nopreview",
		"--width", strconv.Itoa(c.Width),
		"--height", strconv.Itoa(c.Height),
		"--timeout", strconv.FormatInt(c.WarmUp.Milliseconds(), 10),
		"--output", dest,
	}
}

func (c *StillCamera) Capture(ctx context.Context, dest string) error {
	const op errors.Op = "timelapse.StillCamera.Capture"
	run := c.run
	if run == nil {
		run = execRunner
	}

	c.Log.Info("writing", dest)
	out, err := run(ctx, c.Command, c.args(dest)...)
	if err != nil {
		msg := "camera capture failed"
		if detail := bytes.TrimSpace(out); len(detail) > 0 {
			msg += ": " + string(detail)
		}
		return errors.New(op).Err(err).Msg(msg)
	}
	return nil
}
