// Package logging provides a small logging facade over rs/zerolog that
// attributes every line to the code that issued it, with two sinks that
// filter independently and file rotation.
//
// Key features
//   - Call-site attribution: frames belonging to this package are skipped,
//     so wrappers such as Time or WithConsoleSuppressed never shift the
//     reported file:line:function. Callers may also pass At(CallSite).
//   - Console sink rendered as "LEVEL - message" (default INFO)
//   - Optional file sink rendered as
//     "timestamp - thread - LEVEL - pid - file:line:function - message"
//     (default DEBUG) with numbered size rotation or lumberjack rotation
//   - Per-call console suppression via the Suppress option
//   - Critical and Exception attach the error chain and the goroutine stack
//   - CapturePanic records an uncaught panic before the process dies
//
// Typical usage
//
//	log := logging.NewLogger(os.Stderr)
//	defer log.Close()
//	defer log.CapturePanic()
//	if err := log.AttachFile(logging.FileConfig{Path: "/tmp/caerus.log"}); err != nil {
//		return err
//	}
//	log.Info("starting", logging.Suppress)
//	err := logging.Time(log, "capture", []any{dest}, func() error { return cam.Capture(ctx, dest) })
package logging
