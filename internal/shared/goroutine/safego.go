// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

// SafeGo launches fn in its own goroutine. A panic is logged with its stack
// instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Recovered(log, name, fn)()
}

// Recovered wraps fn so a panic is logged rather than propagated. The returned
// function runs synchronously, which lets callers track it with a WaitGroup.
func Recovered(log logger.Interface, name string, fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}
}
