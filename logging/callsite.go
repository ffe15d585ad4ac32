package logging

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// CallSite identifies where an emission was issued.
type CallSite struct {
	File     string
	Line     int
	Function string
}

// String renders the call site as "path:line:function".
func (c CallSite) String() string {
	return c.File + ":" + strconv.Itoa(c.Line) + ":" + c.Function
}

// Caller returns the call site skip frames above the caller of Caller.
// Caller(0) is the function calling Caller.
func Caller(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallSite{File: "???", Function: "unknown"}
	}
	name := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	return newCallSite(name, file, line)
}

var internalPrefix = reflect.TypeOf(CallSite{}).PkgPath() + "."

const maxCallerDepth = 32

// resolveCallSite returns the first frame outside this package and the Go
// runtime. When every captured frame is internal, the outermost one is used.
func resolveCallSite() CallSite {
	pcs := make([]uintptr, maxCallerDepth)
	// 0 is runtime.Callers, 1 is resolveCallSite
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return CallSite{File: "???", Function: "unknown"}
	}

	frames := runtime.CallersFrames(pcs[:n])
	var outermost runtime.Frame
	for {
		frame, more := frames.Next()
		if !isInternalFrame(frame.Function) {
			return newCallSite(frame.Function, frame.File, frame.Line)
		}
		if strings.HasPrefix(frame.Function, internalPrefix) {
			outermost = frame
		}
		if !more {
			break
		}
	}
	return newCallSite(outermost.Function, outermost.File, outermost.Line)
}

func isInternalFrame(function string) bool {
	return strings.HasPrefix(function, internalPrefix) || strings.HasPrefix(function, "runtime.")
}

func newCallSite(function, file string, line int) CallSite {
	name := "unknown"
	if function != emptyString {
		name = trimFuncName(function)
	}
	return CallSite{File: trimFilePath(file), Line: line, Function: name}
}

// modRoots caches the go.mod root per source directory.
var modRoots sync.Map

func getModRoot(fullPath string) string {
	dir := filepath.Dir(fullPath)
	if root, ok := modRoots.Load(dir); ok {
		return root.(string)
	}
	root, err := findGoModRoot(fullPath)
	if err != nil {
		root = emptyString
	}
	modRoots.Store(dir, root)
	return root
}

// trimFilePath turns /home/pi/src/caerus/internal/timelapse/camera.go into
// internal/timelapse/camera.go when the module root can be found, and into
// camera.go otherwise.
func trimFilePath(fullPath string) string {
	if fullPath == emptyString {
		return "???"
	}
	if root := getModRoot(fullPath); root != emptyString {
		if rel, err := filepath.Rel(root, fullPath); err == nil {
			return rel
		}
	}
	return filepath.Base(fullPath)
}

func findGoModRoot(start string) (string, error) {
	dir := filepath.Dir(start)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return emptyString, errors.New("go.mod not found")
}

// github.com/kav/caerus/internal/timelapse.NextIndex -> NextIndex
// github.com/kav/caerus/internal/timelapse.(*Scheduler).Run -> (*Scheduler).Run
func trimFuncName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx >= 0 && idx+1 < len(name) {
		name = name[idx+1:]
	}
	return name
}
