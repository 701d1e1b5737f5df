// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package adxl343 drives an ADXL343 3-axis accelerometer over a
// register bus.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/ADXL343.pdf
package adxl343

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/relabs-tech/tilt_streamer/internal/bus"
)

// bootDelay is how long the device needs after power-up before it
// accepts register writes.
const bootDelay = 100 * time.Millisecond

// Vector3 is a single acceleration sample in g-units.
type Vector3 struct {
	X, Y, Z float32
}

func (v Vector3) String() string {
	return fmt.Sprintf("X:%.4f Y:%.4f Z:%.4f", v.X, v.Y, v.Z)
}

// Dev is a driver for the ADXL343 accelerometer.
type Dev struct {
	bus bus.Bus
	clk clock.Clock
}

// New creates the driver on the given bus. Init must be called before
// reading data.
func New(b bus.Bus) *Dev {
	return &Dev{bus: b, clk: clock.New()}
}

// Init waits out the device boot time and enables continuous
// measurement mode. A failed write means no sensor is present or the
// bus is miswired; the caller is expected to treat that as fatal.
func (d *Dev) Init() error {
	d.clk.Sleep(bootDelay)
	if err := d.bus.WriteReg(RegPowerCtl, []byte{measureMode}); err != nil {
		return fmt.Errorf("adxl343: enable measurement mode: %w", err)
	}
	return nil
}

// ReadAccel reads the 6-byte XYZ data block and decodes it into
// g-units. Each axis is a little-endian two's-complement int16; the
// sign must be resolved before the sensitivity scaling.
func (d *Dev) ReadAccel() (Vector3, error) {
	buf, err := d.bus.ReadReg(RegDataX0, 6)
	if err != nil {
		return Vector3{}, fmt.Errorf("adxl343: read acceleration: %w", err)
	}
	x := int16(binary.LittleEndian.Uint16(buf[0:2]))
	y := int16(binary.LittleEndian.Uint16(buf[2:4]))
	z := int16(binary.LittleEndian.Uint16(buf[4:6]))
	return Vector3{
		X: float32(x) / CountsPerG,
		Y: float32(y) / CountsPerG,
		Z: float32(z) / CountsPerG,
	}, nil
}

// ReadDeviceID reads RegDevID, expected to be DeviceID (0xE5).
func (d *Dev) ReadDeviceID() (byte, error) {
	return d.ReadRegister(RegDevID)
}

// ReadRegister reads a single register. Used by the register debug
// tool; the streaming path only uses ReadAccel.
func (d *Dev) ReadRegister(reg byte) (byte, error) {
	buf, err := d.bus.ReadReg(reg, 1)
	if err != nil {
		return 0, fmt.Errorf("adxl343: read reg 0x%02X: %w", reg, err)
	}
	return buf[0], nil
}
