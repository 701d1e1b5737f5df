package stream

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/relabs-tech/tilt_streamer/internal/adxl343"
	"github.com/relabs-tech/tilt_streamer/internal/bus"
	"github.com/relabs-tech/tilt_streamer/internal/calib"
	"github.com/relabs-tech/tilt_streamer/internal/orientation"
	"github.com/relabs-tech/tilt_streamer/internal/wire"
)

// constSource always returns the same tilt.
type constSource struct {
	t   orientation.Tilt
	err error
}

func (s *constSource) Next() (orientation.Tilt, error) {
	return s.t, s.err
}

// lineSink records the wire rendering of every emitted sample.
type lineSink struct {
	lines []string
}

func (s *lineSink) Emit(t orientation.Tilt) error {
	s.lines = append(s.lines, wire.FormatLine(t))
	return nil
}

func TestStepSubtractsOffsetsAndFilters(t *testing.T) {
	src := &constSource{t: orientation.Tilt{Roll: 0.8, Pitch: 0.5}}
	sink := &lineSink{}
	s := New(src, calib.Offset{Roll: 0.3, Pitch: 0.5}, sink)

	// raw after offsets is (0.5, 0); first filtered value is 0.2*raw.
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got, want := sink.lines[0], "0.1000,0.0000\n"; got != want {
		t.Fatalf("line %q, want %q", got, want)
	}
}

func TestStepFormatsNegativeValues(t *testing.T) {
	src := &constSource{t: orientation.Tilt{Roll: -0.617, Pitch: 0}}
	sink := &lineSink{}
	s := New(src, calib.Offset{}, sink)

	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got, want := sink.lines[0], "-0.1234,0.0000\n"; got != want {
		t.Fatalf("line %q, want %q", got, want)
	}
}

func TestStepKeepsFilterStateOnReadFailure(t *testing.T) {
	src := &constSource{t: orientation.Tilt{Roll: 1, Pitch: 1}}
	sink := &lineSink{}
	s := New(src, calib.Offset{}, sink)

	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	before := s.filter

	src.err = errors.New("bus glitch")
	if err := s.Step(); err == nil {
		t.Fatal("Step succeeded with a failing source")
	}
	if s.filter != before {
		t.Fatalf("filter state moved on a dropped sample: %+v vs %+v", s.filter, before)
	}
	if len(sink.lines) != 1 {
		t.Fatalf("emitted %d lines, want 1", len(sink.lines))
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	src := &constSource{t: orientation.Tilt{}}
	sink := &lineSink{}
	s := New(src, calib.Offset{}, sink)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v", err)
	}
	if len(sink.lines) == 0 {
		t.Fatal("Run emitted nothing before cancellation")
	}
}

// Full pipeline against a played-back bus: wake the device, calibrate
// on a flat pose, and check the first streamed line.
func TestPipelineFlatPose(t *testing.T) {
	flat := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01} // 1 g on Z

	ops := []i2ctest.IO{
		{Addr: adxl343.DefaultAddr, W: []byte{adxl343.RegPowerCtl, 0x08}, R: nil},
	}
	for i := 0; i < calib.SampleCount+1; i++ {
		ops = append(ops, i2ctest.IO{Addr: adxl343.DefaultAddr, W: []byte{adxl343.RegDataX0}, R: flat})
	}
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}

	dev := adxl343.New(bus.NewI2C(pb, adxl343.DefaultAddr))
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	src := orientation.NewSensorSource(dev)
	off, err := calib.New(src).Run()
	if err != nil {
		t.Fatalf("calibration: %v", err)
	}
	if off.Roll != 0 || off.Pitch != 0 {
		t.Fatalf("offsets (%v, %v), want (0, 0)", off.Roll, off.Pitch)
	}

	sink := &lineSink{}
	s := New(src, off, sink)
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got, want := sink.lines[0], "0.0000,0.0000\n"; got != want {
		t.Fatalf("first line %q, want %q", got, want)
	}
}

// A sensor whose wake-up write fails must never produce output.
func TestPipelineInitFailureEmitsNothing(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}

	dev := adxl343.New(bus.NewI2C(pb, adxl343.DefaultAddr))
	if err := dev.Init(); err == nil {
		t.Fatal("Init succeeded with a dead bus")
	}
	// The producer treats the init failure as fatal and never reaches
	// calibration or streaming, so the wire stays silent.
}

func TestWireLinesAreWellFormed(t *testing.T) {
	src := &constSource{t: orientation.Tilt{Roll: 0.33, Pitch: -0.7}}
	sink := &lineSink{}
	s := New(src, calib.Offset{}, sink)

	for i := 0; i < 5; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	for _, line := range sink.lines {
		if !strings.HasSuffix(line, "\n") {
			t.Fatalf("line %q missing newline", line)
		}
		parts := strings.Split(strings.TrimSuffix(line, "\n"), ",")
		if len(parts) != 2 {
			t.Fatalf("line %q is not two comma-separated fields", line)
		}
		for _, p := range parts {
			dot := strings.IndexByte(p, '.')
			if dot < 0 || len(p)-dot-1 != 4 {
				t.Fatalf("field %q does not have exactly four decimals", p)
			}
		}
	}
}
