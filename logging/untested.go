package logging

import (
	"fmt"
	"strings"
)

// Untested logs a warning that the calling function requires a unit test.
// Call it at the top of the function concerned.
func (s *Service) Untested(comment ...string) {
	if s == nil {
		return
	}
	cs := resolveCallSite()
	msg := fmt.Sprintf("function: %s in file %s:%d requires a unit test", cs.Function, cs.File, cs.Line)
	if len(comment) > 0 {
		msg += fmt.Sprintf(" '%s'", strings.Join(comment, " "))
	}
	s.Warn(msg, At(cs))
}
