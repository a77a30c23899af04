// Package stack captures creation-site call stacks for tracked handles.
//
// Captures are taken on every handle registration, so the hot path avoids
// per-call allocations where it can: program counter buffers are pooled and
// symbolization happens once, at capture time, never at render time.
package stack

import (
	"runtime"
	"sync"
)

// Frame is one resolved call-stack entry. File is the absolute source path
// as reported by the runtime and may be empty for frames with no source
// information (assembly thunks, stripped binaries).
type Frame struct {
	File     string
	Line     int
	Function string
}

const (
	// initialDepth is the starting size of the program counter buffer.
	// Most registration sites sit well under 64 frames deep.
	initialDepth = 64

	// maxDepth bounds how far Capture will chase very deep stacks.
	maxDepth = 1024

	// poolMaxCap is the largest buffer the pool will retain. Buffers grown
	// past this are dropped so one pathological capture does not pin a
	// large allocation for the life of the process.
	poolMaxCap = 256
)

var pcPool = sync.Pool{
	New: func() any {
		buf := make([]uintptr, initialDepth)
		return &buf
	},
}

// Capture returns the call stack of its caller, innermost frame first.
// skip counts additional stack frames to omit beyond Capture itself:
// skip == 0 starts at the immediate caller, skip == 1 at that caller's
// caller, and so on. The returned slice is freshly allocated and safe to
// retain indefinitely.
func Capture(skip int) []Frame {
	bufp := pcPool.Get().(*[]uintptr)
	buf := *bufp

	// +2 skips runtime.Callers itself and this function.
	n := runtime.Callers(2+skip, buf)
	for n == len(buf) && len(buf) < maxDepth {
		buf = make([]uintptr, len(buf)*2)
		n = runtime.Callers(2+skip, buf)
	}

	frames := resolve(buf[:n])

	if len(buf) <= poolMaxCap {
		*bufp = buf
		pcPool.Put(bufp)
	}
	return frames
}

func resolve(pcs []uintptr) []Frame {
	if len(pcs) == 0 {
		return nil
	}
	out := make([]Frame, 0, len(pcs))
	it := runtime.CallersFrames(pcs)
	for {
		fr, more := it.Next()
		out = append(out, Frame{
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
		})
		if !more {
			break
		}
	}
	return out
}
