package worker

import (
	"testing"
	"time"
)

func TestEvent_InitialState(t *testing.T) {
	tests := []struct {
		name string
		set  bool
	}{
		{"initially clear", false},
		{"initially set", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvent(tt.set)
			if e.IsSet() != tt.set {
				t.Errorf("IsSet() = %v, want %v", e.IsSet(), tt.set)
			}
		})
	}
}

func TestEvent_SetLatches(t *testing.T) {
	e := NewEvent(false)

	e.Set()
	e.Set() // idempotent

	if !e.IsSet() {
		t.Error("IsSet() = false after Set")
	}

	select {
	case <-e.Done():
	default:
		t.Error("Done() not closed after Set")
	}
}

func TestEvent_Reset(t *testing.T) {
	e := NewEvent(true)

	old := e.Done()
	e.Reset()

	if e.IsSet() {
		t.Error("IsSet() = true after Reset")
	}

	// The pre-Reset channel keeps reporting the prior set state.
	select {
	case <-old:
	default:
		t.Error("pre-Reset Done() channel should remain closed")
	}

	select {
	case <-e.Done():
		t.Error("post-Reset Done() channel should be open")
	default:
	}
}

func TestEvent_MultipleWaiters(t *testing.T) {
	e := NewEvent(false)

	const waiters = 4
	done := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			<-e.Done()
			done <- struct{}{}
		}()
	}

	e.Set()

	for i := 0; i < waiters; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("waiter %d did not observe Set", i)
		}
	}
}
