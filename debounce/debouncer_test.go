package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_Push(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	var committed []string
	debouncer := New(func(v string) { committed = append(committed, v) }, WithClock(clock), WithDelay(time.Second))

	debouncer.Push("a")
	clock.Advance(400 * time.Millisecond)
	debouncer.Push("ab")
	clock.Advance(400 * time.Millisecond)
	debouncer.Push("abc")
	clock.Advance(999 * time.Millisecond)
	assert.Empty(t, committed)
	assert.True(t, debouncer.Pending())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"abc"}, committed)
	assert.False(t, debouncer.Pending())

	clock.Advance(5 * time.Second)
	assert.Equal(t, []string{"abc"}, committed)
	assert.Equal(t, 0, clock.Pending())
}

func TestDebouncer_FlushCancelClose(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	var committed []int
	debouncer := New(func(v int) { committed = append(committed, v) }, WithClock(clock))

	assert.False(t, debouncer.Flush())
	debouncer.Push(1)
	assert.True(t, debouncer.Flush())
	clock.Advance(DefaultDelay)
	assert.Equal(t, []int{1}, committed)

	debouncer.Push(2)
	debouncer.Cancel()
	clock.Advance(DefaultDelay)
	assert.Equal(t, []int{1}, committed)

	debouncer.Push(3)
	debouncer.Close()
	debouncer.Push(4)
	clock.Advance(DefaultDelay)
	assert.Equal(t, []int{1}, committed)
}

func TestDebouncer_RealClock(t *testing.T) {
	done := make(chan string, 1)
	debouncer := New(func(v string) { done <- v }, WithDelay(10*time.Millisecond))
	debouncer.Push("x")
	debouncer.Push("y")
	select {
	case v := <-done:
		assert.Equal(t, "y", v)
	case <-time.After(time.Second):
		t.Fatal("commit not delivered")
	}
}
