package game

import "time"

type clock struct{}

func NewClock() Clock {
	return clock{}
}

func (clock) NewTimer(d time.Duration) Timer {
	return &timer{t: time.NewTimer(d)}
}

func (clock) NewTicker(d time.Duration) Timer {
	return &ticker{t: time.NewTicker(d)}
}

type timer struct {
	t *time.Timer
}

func (t *timer) C() <-chan time.Time { return t.t.C }
func (t *timer) Stop()               { t.t.Stop() }

type ticker struct {
	t *time.Ticker
}

func (t *ticker) C() <-chan time.Time { return t.t.C }
func (t *ticker) Stop()               { t.t.Stop() }

// timerC lets a select wait on a timer that may not be running: a nil
// channel never fires.
func timerC(t Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C()
}
