// Package goroutine запускает фоновые горутины с перехватом паник,
// чтобы сбой обработчика события не ронял весь процесс.
package goroutine

import (
	"runtime/debug"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
)

// SafeGo запускает fn в отдельной горутине и перехватывает панику,
// записывая её со стеком в общий логгер.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil && logger.Log != nil {
				logger.Log.Errorf("паника в горутине: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
