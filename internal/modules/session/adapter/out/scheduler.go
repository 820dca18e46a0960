package out

import (
	"sync"
	"time"

	sessionout "studyhub/internal/modules/session/port/out"
)

// TickerScheduler runs each task on its own goroutine backed by a
// time.Ticker.
type TickerScheduler struct{}

func NewTickerScheduler() sessionout.Scheduler {
	return TickerScheduler{}
}

func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
