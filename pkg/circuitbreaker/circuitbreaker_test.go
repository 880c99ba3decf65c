package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("redis down")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold uint32) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("test", Config{FailureThreshold: threshold, OpenTimeout: 30 * time.Second})
	cb.now = clock.now
	return cb, clock
}

func fail() error    { return errDown }
func succeed() error { return nil }

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := New("cache", Config{})
	assert.Equal(t, "cache", cb.Name())
	assert.EqualValues(t, 5, cb.threshold)
	assert.Equal(t, 30*time.Second, cb.timeout)
	assert.EqualValues(t, 1, cb.halfOpenMax)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_Trip(t *testing.T) {
	cb, _ := newTestBreaker(3)

	// 成功会重置连续失败计数
	assert.ErrorIs(t, cb.Execute(fail), errDown)
	assert.ErrorIs(t, cb.Execute(fail), errDown)
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errDown)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断器打开时不应该调用fn")
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("探测成功后关闭", func(t *testing.T) {
		cb, clock := newTestBreaker(1)
		_ = cb.Execute(fail)
		require.Equal(t, StateOpen, cb.State())

		clock.advance(29 * time.Second)
		assert.Equal(t, StateOpen, cb.State())

		clock.advance(time.Second)
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(succeed))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败后重新打开", func(t *testing.T) {
		cb, clock := newTestBreaker(1)
		_ = cb.Execute(fail)
		clock.advance(30 * time.Second)

		assert.ErrorIs(t, cb.Execute(fail), errDown)
		assert.Equal(t, StateOpen, cb.State())

		// 重新计时
		clock.advance(10 * time.Second)
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("探测名额用完后拒绝", func(t *testing.T) {
		cb, clock := newTestBreaker(1)
		_ = cb.Execute(fail)
		clock.advance(30 * time.Second)

		var inner error
		err := cb.Execute(func() error {
			inner = cb.Execute(succeed)
			return nil
		})
		require.NoError(t, err)
		assert.ErrorIs(t, inner, ErrOpenState)
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreaker_IsFailure(t *testing.T) {
	cb, _ := newTestBreaker(1)
	notFound := errors.New("not found")

	err := cb.Execute(func() error { return notFound }, func(err error) bool {
		return !errors.Is(err, notFound)
	})
	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	cb, clock := newTestBreaker(1)

	var transitions []string
	cb.OnStateChange(func(name string, from, to State) {
		transitions = append(transitions, name+":"+from.String()+"->"+to.String())
	})

	_ = cb.Execute(fail)
	clock.advance(time.Minute)
	_ = cb.Execute(succeed)

	assert.Equal(t, []string{
		"test:CLOSED->OPEN",
		"test:OPEN->HALF_OPEN",
		"test:HALF_OPEN->CLOSED",
	}, transitions)
	assert.Equal(t, "UNKNOWN", State(9).String())
}
