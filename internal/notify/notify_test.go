package notify

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitForCount(t *testing.T, count *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for count.Load() < want {
		select {
		case <-deadline:
			t.Fatalf("only %d sends before deadline, want %d", count.Load(), want)
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestShowDeliversOnce(t *testing.T) {
	var count atomic.Int32
	n := NewWithSender(zap.NewNop(), time.Hour, func(title, body string) error {
		count.Add(1)
		return nil
	})

	n.Show("t1", "FFXI Timer", "hello", false)
	waitForCount(t, &count, 1)

	time.Sleep(20 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Fatalf("sent %d, want exactly 1", got)
	}
	// Non-repeating alerts leave nothing behind to stop.
	n.Stop("t1")
}

func TestShowDoesNotBlockOnSender(t *testing.T) {
	release := make(chan struct{})
	n := NewWithSender(zap.NewNop(), time.Hour, func(title, body string) error {
		<-release
		return nil
	})
	defer close(release)

	done := make(chan struct{})
	go func() {
		n.Show("t1", "FFXI Timer", "hello", true)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Show blocked on a stuck sender")
	}
	n.StopAll()
}

func TestRepeatUntilStopped(t *testing.T) {
	var count atomic.Int32
	n := NewWithSender(zap.NewNop(), 10*time.Millisecond, func(title, body string) error {
		count.Add(1)
		return nil
	})

	n.Show("t1", "FFXI Timer", "hello", true)
	waitForCount(t, &count, 3)

	n.Stop("t1")
	settled := count.Load()
	time.Sleep(50 * time.Millisecond)
	if after := count.Load(); after > settled+1 {
		t.Fatalf("kept repeating after stop: %d -> %d", settled, after)
	}
}

func TestNewShowReplacesOldRepeat(t *testing.T) {
	var count atomic.Int32
	n := NewWithSender(zap.NewNop(), time.Hour, func(title, body string) error {
		count.Add(1)
		return nil
	})

	n.Show("t1", "FFXI Timer", "first", true)
	n.Show("t1", "FFXI Timer", "second", true)
	waitForCount(t, &count, 2)

	n.mu.Lock()
	active := len(n.active)
	n.mu.Unlock()
	if active != 1 {
		t.Fatalf("%d active repeats, want 1", active)
	}
	n.StopAll()
}

func TestKeepAwakeDedupes(t *testing.T) {
	k := NewLogKeepAwake(zap.NewNop())
	k.Set(true)
	k.Set(true)
	if !k.enabled {
		t.Fatal("not enabled")
	}
	k.Set(false)
	if k.enabled {
		t.Fatal("still enabled")
	}
}
