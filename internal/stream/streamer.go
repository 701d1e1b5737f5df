// Package stream runs the continuous tilt loop: read, zero, smooth,
// emit, at a fixed cadence.
package stream

import (
	"context"
	"log"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/relabs-tech/tilt_streamer/internal/calib"
	"github.com/relabs-tech/tilt_streamer/internal/orientation"
	"github.com/relabs-tech/tilt_streamer/internal/wire"
)

// Cadence is the target loop period, about 60 Hz. Contractual, see
// SmoothingFactor.
const Cadence = 16 * time.Millisecond

// Streamer owns the per-run state of the streaming phase: the
// calibration offset and the filter. There is exactly one writer at
// all times; nothing here is safe for concurrent use.
type Streamer struct {
	src     orientation.Source
	off     calib.Offset
	filter  Filter
	sink    wire.Sink
	clk     clock.Clock
	cadence time.Duration
}

// New creates a Streamer with the production cadence.
func New(src orientation.Source, off calib.Offset, sink wire.Sink) *Streamer {
	return &Streamer{
		src:     src,
		off:     off,
		sink:    sink,
		clk:     clock.New(),
		cadence: Cadence,
	}
}

// Step performs exactly one loop iteration: read the sensor, subtract
// the calibration offset, update the filter, emit. On a read failure
// the sample is dropped and the filter keeps its previous state.
func (s *Streamer) Step() error {
	t, err := s.src.Next()
	if err != nil {
		return err
	}
	raw := orientation.Tilt{
		Roll:  t.Roll - s.off.Roll,
		Pitch: t.Pitch - s.off.Pitch,
	}
	return s.sink.Emit(s.filter.Update(raw))
}

// Run drives Step at the fixed cadence until the context is cancelled.
// On hardware the context never is; tests use it to stop the loop.
// Errors from individual iterations are logged and the loop continues:
// a transient bus glitch must not kill a live input device.
func (s *Streamer) Run(ctx context.Context) error {
	ticker := s.clk.Ticker(s.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Step(); err != nil {
				log.Printf("stream: dropping sample: %v", err)
			}
		}
	}
}
