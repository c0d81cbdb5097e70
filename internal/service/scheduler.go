package service

import (
	"sync"
	"time"

	"github.com/moricehq/morice-backend/internal/goroutine"
)

// Scheduler абстрагирует отложенный запуск задач. Движок жизненного цикла
// получает планировщик снаружи, чтобы тесты могли промотать виртуальное
// время вместо ожидания wall-clock задержек.
type Scheduler interface {
	// Schedule выполняет fn один раз после задержки d и возвращает функцию
	// отмены. Отмена после срабатывания - no-op.
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler - планировщик на time.AfterFunc. Каждый callback выполняется
// с перехватом panic, чтобы упавший таймер не уронил процесс.
type TimerScheduler struct{}

// NewTimerScheduler создаёт wall-clock планировщик.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Schedule реализует Scheduler.
func (s *TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	var once sync.Once
	timer := time.AfterFunc(d, func() {
		goroutine.SafeGo(fn)
	})

	return func() {
		once.Do(func() {
			timer.Stop()
		})
	}
}
