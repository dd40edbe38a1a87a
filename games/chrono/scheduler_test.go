package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerFiresInDeadlineOrder(t *testing.T) {
	s := NewScheduler(epoch)
	var got []string

	s.After("late", 300*time.Millisecond, func() { got = append(got, "late") })
	s.After("early", 100*time.Millisecond, func() { got = append(got, "early") })
	s.After("same-a", 200*time.Millisecond, func() { got = append(got, "same-a") })
	s.After("same-b", 200*time.Millisecond, func() { got = append(got, "same-b") })

	assert.Equal(t, 0, s.Advance(epoch.Add(50*time.Millisecond)))
	assert.Equal(t, 4, s.Advance(epoch.Add(time.Second)))
	assert.Equal(t, []string{"early", "same-a", "same-b", "late"}, got)
	assert.Equal(t, 0, s.Pending())
}

func TestSchedulerReplaceByKey(t *testing.T) {
	s := NewScheduler(epoch)
	var got []int

	s.After("k", 100*time.Millisecond, func() { got = append(got, 1) })
	s.After("k", 200*time.Millisecond, func() { got = append(got, 2) })

	s.Advance(epoch.Add(150 * time.Millisecond))
	assert.Empty(t, got)

	s.Advance(epoch.Add(250 * time.Millisecond))
	assert.Equal(t, []int{2}, got)
}

func TestSchedulerEveryAndCancelFromCallback(t *testing.T) {
	s := NewScheduler(epoch)
	n := 0

	s.Every("tick", time.Second, func() {
		n++
		if n == 3 {
			s.Cancel("tick")
		}
	})

	s.Advance(epoch.Add(10 * time.Second))
	assert.Equal(t, 3, n)
	assert.False(t, s.Has("tick"))
}

func TestSchedulerCallbackSeesDeadlineAndChains(t *testing.T) {
	s := NewScheduler(epoch)
	var at []time.Time

	s.After("first", time.Second, func() {
		at = append(at, s.Now())
		s.After("second", time.Second, func() {
			at = append(at, s.Now())
		})
	})

	s.Advance(epoch.Add(5 * time.Second))

	assert.Equal(t, []time.Time{epoch.Add(time.Second), epoch.Add(2 * time.Second)}, at)
	assert.Equal(t, epoch.Add(5*time.Second), s.Now())
}

func TestSchedulerCancelAllAndPrefix(t *testing.T) {
	s := NewScheduler(epoch)
	noop := func() {}

	s.After("race-dwell/1", time.Second, noop)
	s.After("race-dwell/2", time.Second, noop)
	s.After("other", time.Second, noop)

	s.CancelPrefix("race-dwell/")
	assert.Equal(t, 1, s.Pending())
	assert.True(t, s.Has("other"))

	s.Every("again", time.Second, noop)
	s.CancelAll()
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 0, s.Advance(epoch.Add(time.Minute)))
}

func TestSchedulerIgnoresTimeGoingBackwards(t *testing.T) {
	s := NewScheduler(epoch)
	s.Advance(epoch.Add(time.Second))
	s.Advance(epoch)
	assert.Equal(t, epoch.Add(time.Second), s.Now())
}
