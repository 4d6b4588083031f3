// Package globaltime is the pipeline's clock. Tests pin it so retention
// cutoffs, dedup windows, and published-date fallbacks are deterministic.
package globaltime

import (
	"sync"
	"time"
)

var (
	mu     sync.RWMutex
	frozen *time.Time
)

func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	if frozen != nil {
		return *frozen
	}
	return time.Now()
}

// SetMockTime freezes the clock at t until ResetTime is called.
func SetMockTime(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	frozen = &t
}

func ResetTime() {
	mu.Lock()
	defer mu.Unlock()
	frozen = nil
}
