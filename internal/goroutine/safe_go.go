package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/moricehq/morice-backend/internal/logger"
)

// SafeGo запускает горутину с обработкой panic. Используется всеми
// fire-and-forget операциями: таймерами жизненного цикла и отправкой
// уведомлений. Упавшая горутина не должна ронять процесс.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if logger.Log == nil {
					logger.Init("info")
				}
				logger.Log.Errorf("goroutine: panic перехвачен: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	SafeGo(func() { fn(ctx) })
}
