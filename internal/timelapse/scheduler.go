package timelapse

import (
	"context"
	"fmt"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/google/uuid"
	"github.com/kav/caerus/logging"
)

const (
	errMsgBadInterval = "Interval must be positive."
	errMsgBadDuration = "Duration must be positive."
	errMsgNoCamera    = "Camera is not set."
	errMsgNoSequence  = "Sequence is not set."
	errMsgNoLog       = "Log is not set."
)

// Scheduler captures one image every Interval until Duration has elapsed.
// Shots are spaced from the start of the previous shot, so a slow camera
// does not stretch the interval; a shot that would start at or after the
// deadline is not taken.
type Scheduler struct {
	Camera   Camera
	Sequence *Sequence
	Log      logging.Logger
	Interval time.Duration
	Duration time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Captured int
	First    int
	Last     int
}

func (s *Scheduler) validate() error {
	const op errors.Op = "timelapse.Scheduler.validate"
	switch {
	case s.Camera == nil:
		return errors.New(op).Msg(errMsgNoCamera)
	case s.Sequence == nil:
		return errors.New(op).Msg(errMsgNoSequence)
	case s.Log == nil:
		return errors.New(op).Msg(errMsgNoLog)
	case s.Interval <= 0:
		return errors.New(op).Msg(errMsgBadInterval)
	case s.Duration <= 0:
		return errors.New(op).Msg(errMsgBadDuration)
	}
	return nil
}

// Run captures until the duration is over or ctx is done. A capture failure
// ends the run and is returned; it has already been logged at critical
// level by then.
func (s *Scheduler) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString(), First: s.sequenceIndex()}
	if err := s.validate(); err != nil {
		return res, err
	}
	now, sleep := s.clock()

	start := now()
	deadline := start.Add(s.Duration)
	s.Log.Info("timelapse", res.RunID, "starting at image", res.First,
		fmt.Sprintf("(every %s for %s)", s.Interval, s.Duration))

	shot := start
	for {
		dest := s.Sequence.Next()
		err := logging.Time(s.Log, "capture", []any{dest}, func() error {
			return s.Camera.Capture(ctx, dest)
		})
		if err != nil {
			return res, err
		}
		res.Captured++
		res.Last = s.Sequence.Index() - 1
		s.Log.Debug("timelapse", res.RunID, "captured", res.Captured, dest)

		shot = shot.Add(s.Interval)
		if !shot.Before(deadline) {
			break
		}
		if err := sleep(ctx, shot.Sub(now())); err != nil {
			s.Log.Warn("timelapse", res.RunID, "interrupted after", res.Captured, "images")
			return res, err
		}
	}

	s.Log.Info("timelapse", res.RunID, "finished:", res.Captured, "images in", now().Sub(start).Round(time.Millisecond))
	return res, nil
}

func (s *Scheduler) sequenceIndex() int {
	if s.Sequence == nil {
		return 0
	}
	return s.Sequence.Index()
}

func (s *Scheduler) clock() (func() time.Time, func(context.Context, time.Duration) error) {
	now, sleep := s.now, s.sleep
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = sleepContext
	}
	return now, sleep
}

// sleepContext waits for d or until ctx is done. Non-positive d returns at
// once unless ctx is already done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
