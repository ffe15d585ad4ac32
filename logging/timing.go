package logging

import (
	"fmt"
	"time"
)

// Time runs fn and logs its start, end and elapsed time at debug level
// under name. args describe the call for the log and are truncated to five
// entries. A failure of fn is logged at critical level and returned as-is.
func Time(log Logger, name string, args []any, fn func() error) error {
	_, err := TimeValue(log, name, args, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// TimeValue is Time for functions returning a value. The value is returned
// unchanged. A panic in fn is logged like an error, then re-raised with its
// original value.
func TimeValue[T any](log Logger, name string, args []any, fn func() (T, error)) (T, error) {
	if len(args) > maxTimedArgs {
		log.Debug(fmt.Sprintf("truncating args from len %d to %d", len(args), maxTimedArgs))
		args = args[:maxTimedArgs]
	}
	log.Debug(fmt.Sprintf("Start: %s(args = %v)", name, args))
	start := time.Now()

	returned := false
	defer func() {
		if returned {
			return
		}
		r := recover()
		if r == nil {
			// runtime.Goexit
			return
		}
		log.Exception("exception found", fmt.Errorf("panic: %v", r))
		log.Debug(fmt.Sprintf("End (with exception): %s(args = %v) took %s", name, args, time.Since(start)))
		panic(r)
	}()

	result, err := fn()
	returned = true

	if err != nil {
		log.Exception("exception found", err)
		log.Debug(fmt.Sprintf("End (with exception): %s(args = %v) took %s", name, args, time.Since(start)))
		return result, err
	}
	log.Debug(fmt.Sprintf("End: %s(args = %v) took %s", name, args, time.Since(start)))
	return result, nil
}
