package adxl343_test

import (
	"math"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/relabs-tech/tilt_streamer/internal/adxl343"
	"github.com/relabs-tech/tilt_streamer/internal/bus"
)

const testAddr = adxl343.DefaultAddr

func TestInitWritesMeasurementMode(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: testAddr, W: []byte{adxl343.RegPowerCtl, 0x08}, R: nil},
		},
		DontPanic: true,
	}

	dev := adxl343.New(bus.NewI2C(pb, testAddr))
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// The playback has no further ops recorded: any extra traffic
	// during Init would have failed the write above.
	if _, err := dev.ReadDeviceID(); err == nil {
		t.Fatal("playback should be exhausted after Init")
	}
}

func TestInitFailsWhenWakeWriteFails(t *testing.T) {
	// No recorded ops: the wake-up write is rejected, as with a
	// missing or miswired sensor.
	pb := &i2ctest.Playback{DontPanic: true}

	dev := adxl343.New(bus.NewI2C(pb, testAddr))
	if err := dev.Init(); err == nil {
		t.Fatal("Init succeeded with a dead bus")
	}
}

func TestReadAccelDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want adxl343.Vector3
	}{
		{
			name: "one g per axis",
			raw:  []byte{0x00, 0x01, 0x00, 0x01, 0x00, 0x01},
			want: adxl343.Vector3{X: 1, Y: 1, Z: 1},
		},
		{
			name: "minus one count is not 255",
			raw:  []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			want: adxl343.Vector3{X: -1.0 / 256, Y: -1.0 / 256, Z: -1.0 / 256},
		},
		{
			name: "flat pose",
			raw:  []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01},
			want: adxl343.Vector3{X: 0, Y: 0, Z: 1},
		},
		{
			name: "extremes",
			raw:  []byte{0xFF, 0x7F, 0x00, 0x80, 0x2A, 0x00},
			want: adxl343.Vector3{X: 32767.0 / 256, Y: -128, Z: 42.0 / 256},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pb := &i2ctest.Playback{
				Ops: []i2ctest.IO{
					{Addr: testAddr, W: []byte{adxl343.RegDataX0}, R: tc.raw},
				},
				DontPanic: true,
			}

			dev := adxl343.New(bus.NewI2C(pb, testAddr))
			got, err := dev.ReadAccel()
			if err != nil {
				t.Fatalf("ReadAccel: %v", err)
			}
			if !approx(got.X, tc.want.X) || !approx(got.Y, tc.want.Y) || !approx(got.Z, tc.want.Z) {
				t.Fatalf("decoded %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReadAccelPropagatesBusFailure(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}

	dev := adxl343.New(bus.NewI2C(pb, testAddr))
	if _, err := dev.ReadAccel(); err == nil {
		t.Fatal("ReadAccel succeeded with a dead bus")
	}
}

func TestReadRegister(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: testAddr, W: []byte{adxl343.RegDevID}, R: []byte{adxl343.DeviceID}},
		},
		DontPanic: true,
	}

	dev := adxl343.New(bus.NewI2C(pb, testAddr))
	id, err := dev.ReadDeviceID()
	if err != nil {
		t.Fatalf("ReadDeviceID: %v", err)
	}
	if id != adxl343.DeviceID {
		t.Fatalf("device ID 0x%02X, want 0x%02X", id, adxl343.DeviceID)
	}
}

func approx(got, want float32) bool {
	return math.Abs(float64(got-want)) < 1e-6
}
