package logging

// Option changes how a single emission is handled. Options are passed among
// the supplementary values of any emission method and are not rendered.
type Option func(*emitOptions)

type emitOptions struct {
	suppress bool
	callSite *CallSite
}

// Suppress silences the console sink for one emission. The file sink is
// unaffected.
var Suppress Option = func(o *emitOptions) { o.suppress = true }

// At attributes the emission to cs instead of resolving the caller.
func At(cs CallSite) Option {
	return func(o *emitOptions) { o.callSite = &cs }
}

// splitOptions separates Option values from the values to be rendered.
func splitOptions(args []any) (emitOptions, []any) {
	var opts emitOptions
	var rest []any
	for i, a := range args {
		opt, ok := a.(Option)
		if !ok {
			if rest != nil {
				rest = append(rest, a)
			}
			continue
		}
		if rest == nil {
			rest = append(make([]any, 0, len(args)-1), args[:i]...)
		}
		if opt != nil {
			opt(&opts)
		}
	}
	if rest == nil {
		return opts, args
	}
	return opts, rest
}
