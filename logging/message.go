package logging

import (
	"fmt"
	"strings"
)

// formatMessage joins msg with the supplementary values, one space apart.
// A value whose Error or String method panics makes the whole sequence fall
// back to fmt's rendering of the slice; formatting never panics.
func formatMessage(msg any, args []any) string {
	head := fmt.Sprint(msg)
	if len(args) == 0 {
		return head
	}

	parts := make([]string, 0, len(args))
	for _, a := range args {
		s, ok := stringify(a)
		if !ok {
			return head + " " + fmt.Sprint(args)
		}
		parts = append(parts, s)
	}
	return head + " " + strings.Join(parts, " ")
}

func stringify(v any) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s, ok = emptyString, false
		}
	}()

	switch t := v.(type) {
	case string:
		return t, true
	case error:
		return t.Error(), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
