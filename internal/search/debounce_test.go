package search

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerSingleCall(t *testing.T) {
	d := NewDebouncer()
	var calls atomic.Int32

	d.Schedule(func() { calls.Add(1) }, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestDebouncerCoalescesRapidCalls(t *testing.T) {
	d := NewDebouncer()
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		value := int32(i)
		d.Schedule(func() {
			calls.Add(1)
			last.Store(value)
		}, 50*time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a burst to coalesce into 1 call, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Fatalf("expected the last scheduled callback to win, got %d", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer()
	var calls atomic.Int32

	d.Schedule(func() { calls.Add(1) }, 20*time.Millisecond)
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no calls after cancel, got %d", got)
	}
}

func TestDebouncerScheduleAfterCancel(t *testing.T) {
	d := NewDebouncer()
	var calls atomic.Int32

	d.Schedule(func() { calls.Add(1) }, 20*time.Millisecond)
	d.Cancel()
	d.Schedule(func() { calls.Add(1) }, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 call after re-schedule, got %d", got)
	}
}
