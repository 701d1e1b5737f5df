// Package wire carries the tilt stream to the downstream consumer.
//
// The wire protocol is one line per sample, `%.4f,%.4f\n` (roll,
// pitch, radians), flushed per line so a line-buffered reader observes
// each sample promptly. No framing, no header, no trailer. The format
// is contractual: the downstream gesture layer's thresholds are tuned
// against it.
package wire

import (
	"fmt"

	"github.com/relabs-tech/tilt_streamer/internal/orientation"
)

// LineFormat is the wire line layout shared with the consumer.
const LineFormat = "%.4f,%.4f\n"

// FormatLine renders one tilt sample as a wire line, newline included.
func FormatLine(t orientation.Tilt) string {
	return fmt.Sprintf(LineFormat, t.Roll, t.Pitch)
}

// Sink consumes filtered tilt samples.
type Sink interface {
	Emit(t orientation.Tilt) error
}

// MultiSink fans every sample out to several sinks. The first error is
// returned but all sinks are attempted.
type MultiSink []Sink

func (m MultiSink) Emit(t orientation.Tilt) error {
	var first error
	for _, s := range m {
		if err := s.Emit(t); err != nil && first == nil {
			first = err
		}
	}
	return first
}
