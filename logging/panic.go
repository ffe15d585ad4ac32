package logging

import (
	"fmt"
	"runtime/debug"
)

// CapturePanic records a panic travelling up the current goroutine and then
// lets it continue, so the process still dies. It must be deferred directly:
//
//	defer log.CapturePanic()
//
// The record is written at critical level with the stack, the panic value's
// type and the value, and the file sink is closed so it reaches disk.
func (s *Service) CapturePanic() {
	r := recover()
	if r == nil {
		return
	}
	if s != nil {
		s.Critical(fmt.Sprintf("Uncaught Exception\n%s%T: %v", debug.Stack(), r, r))
		_ = s.Close()
	}
	panic(r)
}
