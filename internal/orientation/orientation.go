package orientation

import (
	"math"

	"github.com/relabs-tech/tilt_streamer/internal/adxl343"
)

// Tilt is the canonical roll/pitch pair, in radians, in the sensor's
// own reference frame.
type Tilt struct {
	Roll  float32 `json:"roll"`
	Pitch float32 `json:"pitch"`
}

// Source is anything that can provide tilt samples over time: the real
// sensor, a mock, maybe a replay source from file later.
type Source interface {
	Next() (Tilt, error)
}

// Roll computes the rotation about the forward axis. Positive means
// tilted toward the right.
func Roll(v adxl343.Vector3) float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.Z)))
}

// Pitch computes the rotation about the lateral axis. Using the
// combined Y/Z magnitude instead of raw Z keeps pitch stable while the
// device is simultaneously rolled.
func Pitch(v adxl343.Vector3) float32 {
	y := float64(v.Y)
	z := float64(v.Z)
	return float32(math.Atan2(float64(-v.X), math.Sqrt(y*y+z*z)))
}

// FromAccel converts one acceleration sample into a Tilt.
func FromAccel(v adxl343.Vector3) Tilt {
	return Tilt{Roll: Roll(v), Pitch: Pitch(v)}
}

type sensorSource struct {
	dev *adxl343.Dev
}

// NewSensorSource wraps an initialized accelerometer as a tilt source.
func NewSensorSource(dev *adxl343.Dev) Source {
	return &sensorSource{dev: dev}
}

func (s *sensorSource) Next() (Tilt, error) {
	v, err := s.dev.ReadAccel()
	if err != nil {
		return Tilt{}, err
	}
	return FromAccel(v), nil
}
