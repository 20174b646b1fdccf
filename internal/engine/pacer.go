package engine

import "time"

// Pacer spaces out phase transitions. It carries presentation timing only;
// game rules never depend on it.
type Pacer interface {
	Pause(d time.Duration)
}

// NoPause is the headless pacer.
type NoPause struct{}

func (NoPause) Pause(time.Duration) {}

// SleepPacer blocks the caller for the requested duration.
type SleepPacer struct{}

func (SleepPacer) Pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
