// Package timer counts down the drawing time between snapshots.
package timer

import (
	"math"
	"strconv"
	"time"
)

type (
	// Timer free-runs the remaining time from the last value sent by the server.
	// The shown time never increases until the server sends a new value.
	Timer struct {
		anchor     int
		anchorTime time.Time
		shown      int
		running    bool
		expired    bool
	}

	// Display is what the timer shows.
	Display struct {
		// Active is false when there is no timer.
		Active bool
		// Remaining is the number of seconds left.
		Remaining int
		// Text is "--" when inactive, "m:ss" for a minute or more, and the seconds otherwise.
		Text string
		// Fraction is how much of the full duration has passed, from 0 to 1.
		Fraction float64
		Urgency  Urgency
	}

	// Urgency tells how little time is left.
	Urgency int
)

const (
	// Normal is more than twenty seconds.
	Normal Urgency = iota
	// Warning is twenty seconds or less.
	Warning
	// Critical is ten seconds or less.
	Critical
)

const (
	// FullDuration is the length of a drawing phase.
	FullDuration = 40 * time.Second
	// TickInterval is the time between recalculations of the remaining time.
	TickInterval = 250 * time.Millisecond
	// inactiveText is shown when there is no timer.
	inactiveText = "--"
)

// Remaining is the number of seconds left, rounded, from v seconds after the elapsed time.
// It is never negative.
func Remaining(v int, elapsed time.Duration) int {
	r := int(math.Round(float64(v) - elapsed.Seconds()))
	if r < 0 {
		return 0
	}
	return r
}

// Sync sets the value the server sent.
// A positive value anchors a new countdown that can expire again.  Zero stops the timer.
func (t *Timer) Sync(v int, now time.Time) Display {
	if v <= 0 {
		*t = Timer{}
		return NewDisplay(0, false)
	}
	*t = Timer{
		anchor:     v,
		anchorTime: now,
		shown:      v,
		running:    true,
	}
	return NewDisplay(v, true)
}

// Tick recalculates the remaining time.
// Expired is true only for the tick that reaches zero.  The timer stops running after it expires.
func (t *Timer) Tick(now time.Time) (d Display, expired bool) {
	if !t.running {
		return NewDisplay(t.shown, t.anchor > 0), false
	}
	r := Remaining(t.anchor, now.Sub(t.anchorTime))
	if r > t.shown {
		r = t.shown
	}
	t.shown = r
	if r == 0 && !t.expired {
		t.expired = true
		t.running = false
		expired = true
	}
	return NewDisplay(r, true), expired
}

// Running determines if the timer is counting down.
func (t Timer) Running() bool {
	return t.running
}

// NewDisplay creates the display for the remaining seconds.
func NewDisplay(remaining int, active bool) Display {
	if !active {
		return Display{
			Text: inactiveText,
		}
	}
	d := Display{
		Active:    true,
		Remaining: remaining,
		Text:      text(remaining),
		Fraction:  fraction(remaining),
		Urgency:   urgency(remaining),
	}
	return d
}

func text(remaining int) string {
	mins, secs := remaining/60, remaining%60
	if mins == 0 {
		return strconv.Itoa(secs)
	}
	s := strconv.Itoa(secs)
	if secs < 10 {
		s = "0" + s
	}
	return strconv.Itoa(mins) + ":" + s
}

func fraction(remaining int) float64 {
	f := 1 - float64(remaining)/FullDuration.Seconds()
	return math.Max(0, math.Min(1, f))
}

func urgency(remaining int) Urgency {
	switch {
	case remaining <= 10:
		return Critical
	case remaining <= 20:
		return Warning
	}
	return Normal
}
