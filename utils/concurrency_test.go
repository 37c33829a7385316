package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolLimitsConcurrency(t *testing.T) {
	pool := NewWorkerPool(4, 0)

	var current, peak, done int64
	for i := 0; i < 64; i++ {
		pool.Submit(func() {
			c := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if c <= p || atomic.CompareAndSwapInt64(&peak, p, c) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&current, -1)
			atomic.AddInt64(&done, 1)
		})
	}
	pool.Wait()

	if done != 64 {
		t.Errorf("completed jobs = %d; want 64", done)
	}
	if peak > 4 {
		t.Errorf("peak concurrency = %d; want <= 4", peak)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	var timestamps []time.Time
	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			<-mu
			timestamps = append(timestamps, time.Now())
			mu <- struct{}{}
		})
	}
	pool.Wait()

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		min := time.Duration(rateLimitMs) * time.Millisecond
		if gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}
