// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build !tinygo

package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// I2C adapts a periph.io I2C device to the Bus interface. The device
// handle is exclusively owned by the caller for the process lifetime.
type I2C struct {
	d *i2c.Dev
}

// NewI2C wraps an already opened I2C bus and a 7-bit device address.
func NewI2C(b i2c.Bus, addr uint16) *I2C {
	return &I2C{d: &i2c.Dev{Bus: b, Addr: addr}}
}

func (c *I2C) WriteReg(reg byte, data []byte) error {
	w := make([]byte, 0, 1+len(data))
	w = append(w, reg)
	w = append(w, data...)
	if err := c.d.Tx(w, nil); err != nil {
		return fmt.Errorf("i2c write reg 0x%02X: %w", reg, err)
	}
	return nil
}

func (c *I2C) ReadReg(reg byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.d.Tx([]byte{reg}, buf); err != nil {
		return nil, fmt.Errorf("i2c read reg 0x%02X: %w", reg, err)
	}
	return buf, nil
}
