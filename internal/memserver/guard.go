package memserver

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-marmot/marmot/plan"
)

// safeStep wraps a step such that panics are recovered and reported as
// errors naming the operator
func safeStep(kind plan.OpKind, s step) step {
	return func(ctx context.Context, in *frame, records bool) (out *frame, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("%s panic: %w\n%s", kind, anErr, getTrace())
				} else {
					err = fmt.Errorf("%s panic: %v\n%s", kind, r, getTrace())
				}
			}
		}()
		return s(ctx, in, records)
	}
}

// getTrace produces the string representation of the panicking stack
func getTrace() string {
	var pc [16]uintptr
	var res strings.Builder
	n := runtime.Callers(4, pc[:])
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&res, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return res.String()
}
