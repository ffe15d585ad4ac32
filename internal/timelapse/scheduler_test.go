package timelapse

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kav/caerus/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCamera writes a placeholder image and fails on the shots listed in
// failAt (1-based).
type fakeCamera struct {
	shots  []string
	failAt map[int]error
}

func (c *fakeCamera) Capture(_ context.Context, dest string) error {
	c.shots = append(c.shots, dest)
	if err, ok := c.failAt[len(c.shots)]; ok {
		return err
	}
	return os.WriteFile(dest, []byte("jpg"), 0o644)
}

// fakeClock advances only when the scheduler sleeps.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	return nil
}

func newTestScheduler(t *testing.T, cam Camera, interval, duration time.Duration) (*Scheduler, *fakeClock, *bytes.Buffer) {
	t.Helper()
	var console bytes.Buffer
	log := logging.NewLogger(&console)
	log.SetConsoleLevel(logging.LevelDebug)

	seq, err := OpenSequence(filepath.Join(t.TempDir(), "garden"), "image_")
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)}
	s := &Scheduler{
		Camera:   cam,
		Sequence: seq,
		Log:      log,
		Interval: interval,
		Duration: duration,
		now:      clock.now,
		sleep:    clock.sleep,
	}
	return s, clock, &console
}

func TestScheduler_CapturesUntilDeadline(t *testing.T) {
	cam := &fakeCamera{}
	s, clock, console := newTestScheduler(t, cam, 3*time.Second, 10*time.Second)

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Captured)
	assert.Equal(t, 1, res.First)
	assert.Equal(t, 4, res.Last)
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, cam.shots, 4)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, clock.sleeps)
	for _, shot := range cam.shots {
		assert.FileExists(t, shot)
	}

	out := console.String()
	assert.Contains(t, out, "INFO - timelapse "+res.RunID+" starting at image 1")
	assert.Contains(t, out, "INFO - timelapse "+res.RunID+" finished: 4 images")
	assert.Equal(t, 4, strings.Count(out, "DEBUG - Start: capture(args = ["))
}

func TestScheduler_ResumesSequence(t *testing.T) {
	cam := &fakeCamera{}
	s, _, _ := newTestScheduler(t, cam, time.Second, 2*time.Second)
	touch(t, s.Sequence.Dir, "image_00007.jpg")
	seq, err := OpenSequence(s.Sequence.Dir, "image_")
	require.NoError(t, err)
	s.Sequence = seq

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, res.First)
	assert.Equal(t, 9, res.Last)
	assert.Equal(t, filepath.Join(s.Sequence.Dir, "image_00008.jpg"), cam.shots[0])
	assert.FileExists(t, filepath.Join(s.Sequence.Dir, "image_00007.jpg"))
}

func TestScheduler_CaptureFailurePropagates(t *testing.T) {
	hw := errors.New("no cameras available")
	cam := &fakeCamera{failAt: map[int]error{2: hw}}
	s, _, console := newTestScheduler(t, cam, time.Second, time.Minute)

	res, err := s.Run(context.Background())

	assert.True(t, err == hw, "camera error is returned unchanged")
	assert.Equal(t, 1, res.Captured)
	out := console.String()
	assert.Contains(t, out, "CRITICAL - exception found no cameras available")
	assert.Contains(t, out, "DEBUG - End (with exception): capture(args = [")
}

func TestScheduler_Cancelled(t *testing.T) {
	cam := &fakeCamera{}
	s, _, _ := newTestScheduler(t, cam, time.Second, time.Minute)
	s.sleep = nil

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Captured)
}

func TestScheduler_Validation(t *testing.T) {
	cam := &fakeCamera{}

	s, _, _ := newTestScheduler(t, cam, 0, time.Minute)
	_, err := s.Run(context.Background())
	assert.Error(t, err)

	s, _, _ = newTestScheduler(t, cam, time.Second, -time.Second)
	_, err = s.Run(context.Background())
	assert.Error(t, err)

	s, _, _ = newTestScheduler(t, nil, time.Second, time.Second)
	_, err = s.Run(context.Background())
	assert.Error(t, err)

	s, _, _ = newTestScheduler(t, cam, time.Second, time.Second)
	s.Log = nil
	assert.NotPanics(t, func() {
		_, err = s.Run(context.Background())
	})
	assert.Error(t, err)

	assert.Empty(t, cam.shots)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
}
