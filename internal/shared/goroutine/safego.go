// Package goroutine launches background work that must not crash the process.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"soportes/internal/shared/logger"
)

// SafeGo runs fn in a goroutine, logging a panic with its stack instead of
// propagating it. The returned channel closes once fn has finished, panic
// or not; fire-and-forget callers ignore it, short-lived commands wait on it.
func SafeGo(log logger.Interface, name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
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
	}()
	return done
}
