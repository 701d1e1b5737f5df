// Package calib computes the per-run zero-offset for roll and pitch.
//
// The device is assumed to be held in a stable neutral pose for the
// whole sampling window. There is no outlier rejection and no retry; a
// bump during calibration biases the offset for the rest of the run.
package calib

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/relabs-tech/tilt_streamer/internal/orientation"
)

const (
	// SampleCount is the number of averaged samples.
	SampleCount = 50

	// SampleInterval separates consecutive calibration samples.
	SampleInterval = 20 * time.Millisecond

	// SettleDelay is waited after calibration before streaming starts,
	// so the calibration pose does not bleed into the live stream.
	SettleDelay = 1000 * time.Millisecond
)

// Offset is the baseline subtracted from every raw tilt sample. It is
// computed once at startup and never recomputed.
type Offset struct {
	Roll  float32
	Pitch float32
}

// Calibrator samples a tilt source and averages the result.
type Calibrator struct {
	src      orientation.Source
	clk      clock.Clock
	interval time.Duration
	settle   time.Duration
}

// New creates a Calibrator with the production sampling timings.
func New(src orientation.Source) *Calibrator {
	return &Calibrator{
		src:      src,
		clk:      clock.New(),
		interval: SampleInterval,
		settle:   SettleDelay,
	}
}

// Run takes SampleCount samples at the configured interval, averages
// roll and pitch, then waits out the settle delay. A read failure
// aborts calibration; a device that fails this early is not usable.
func (c *Calibrator) Run() (Offset, error) {
	var sumRoll, sumPitch float64
	for i := 0; i < SampleCount; i++ {
		t, err := c.src.Next()
		if err != nil {
			return Offset{}, fmt.Errorf("calibration sample %d/%d: %w", i+1, SampleCount, err)
		}
		sumRoll += float64(t.Roll)
		sumPitch += float64(t.Pitch)
		c.clk.Sleep(c.interval)
	}

	off := Offset{
		Roll:  float32(sumRoll / SampleCount),
		Pitch: float32(sumPitch / SampleCount),
	}

	c.clk.Sleep(c.settle)
	return off, nil
}
