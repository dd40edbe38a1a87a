/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chrono

import (
	"strings"
	"time"
)

type timer struct {
	at    time.Time
	every time.Duration
	seq   uint64
	fn    func()
}

// Scheduler holds the delayed actions of one session, keyed by purpose.
// Nothing runs on its own: Advance fires whatever has come due, in
// deadline order, on the caller's goroutine.
type Scheduler struct {
	now    time.Time
	seq    uint64
	timers map[string]*timer
}

func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{
		now:    now,
		timers: make(map[string]*timer),
	}
}

// Now is the scheduler's logical time. While a timer callback runs it is
// that timer's deadline.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After runs fn once, d from now. An existing timer under key is replaced.
func (s *Scheduler) After(key string, d time.Duration, fn func()) {
	s.seq++
	s.timers[key] = &timer{at: s.now.Add(d), seq: s.seq, fn: fn}
}

// Every runs fn each d until cancelled. An existing timer under key is replaced.
func (s *Scheduler) Every(key string, d time.Duration, fn func()) {
	if d <= 0 {
		return
	}
	s.seq++
	s.timers[key] = &timer{at: s.now.Add(d), every: d, seq: s.seq, fn: fn}
}

// Cancel drops the timer under key and reports whether one was pending.
func (s *Scheduler) Cancel(key string) bool {
	if _, ok := s.timers[key]; !ok {
		return false
	}
	delete(s.timers, key)
	return true
}

// CancelPrefix drops every timer whose key starts with prefix.
func (s *Scheduler) CancelPrefix(prefix string) {
	for key := range s.timers {
		if strings.HasPrefix(key, prefix) {
			delete(s.timers, key)
		}
	}
}

// CancelAll drops every pending timer.
func (s *Scheduler) CancelAll() {
	clear(s.timers)
}

func (s *Scheduler) Has(key string) bool {
	_, ok := s.timers[key]
	return ok
}

func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Advance moves logical time forward to now, firing every timer due on the
// way. Callbacks may schedule or cancel timers; a timer scheduled by a
// callback fires in the same call if it is also due by now.
// It returns the number of callbacks run.
func (s *Scheduler) Advance(now time.Time) int {
	fired := 0

	for {
		key, t := s.next()
		if t == nil || t.at.After(now) {
			break
		}

		s.now = t.at
		if t.every > 0 {
			s.seq++
			t.at = t.at.Add(t.every)
			t.seq = s.seq
		} else {
			delete(s.timers, key)
		}

		t.fn()
		fired++
	}

	if now.After(s.now) {
		s.now = now
	}

	return fired
}

func (s *Scheduler) next() (string, *timer) {
	var (
		key  string
		best *timer
	)

	for k, t := range s.timers {
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			key, best = k, t
		}
	}

	return key, best
}
