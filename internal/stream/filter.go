package stream

import (
	"github.com/relabs-tech/tilt_streamer/internal/orientation"
)

// SmoothingFactor is the EMA weight of the newest sample. Together
// with Cadence it fixes the stream's latency characteristics (time
// constant of about five samples, roughly 80 ms at 60 Hz); the
// downstream gesture layer is tuned against it, so it must not change
// between host implementations.
const SmoothingFactor = 0.2

// Filter is first-order exponential smoothing state for roll and
// pitch. The zero value is the correct initial state: after the first
// update it always reflects a weighted history, never a single raw
// sample.
type Filter struct {
	Roll  float32
	Pitch float32
}

// Update folds one offset-corrected sample into the filter state and
// returns the new filtered tilt.
func (f *Filter) Update(raw orientation.Tilt) orientation.Tilt {
	f.Roll = f.Roll*(1-SmoothingFactor) + raw.Roll*SmoothingFactor
	f.Pitch = f.Pitch*(1-SmoothingFactor) + raw.Pitch*SmoothingFactor
	return orientation.Tilt{Roll: f.Roll, Pitch: f.Pitch}
}
