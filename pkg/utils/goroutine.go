package utils

import (
	"runtime/debug"

	"go.uber.org/zap"
)

// GoSafe runs fn in a new goroutine and recovers from any panic it raises.
// Panics are reported through the global zap logger.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("Recovered from panic",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
