//go:build tinygo

package bus

import (
	"machine"
)

// MachineI2C adapts a bare-metal I2C peripheral to the Bus interface.
// The wire protocol is identical to the Linux adapter: register
// pointer write, then payload.
type MachineI2C struct {
	bus  *machine.I2C
	addr uint8
}

// NewMachineI2C wraps an already configured machine I2C peripheral and
// a 7-bit device address.
func NewMachineI2C(b *machine.I2C, addr uint8) *MachineI2C {
	return &MachineI2C{bus: b, addr: addr}
}

func (c *MachineI2C) WriteReg(reg byte, data []byte) error {
	return c.bus.WriteRegister(c.addr, reg, data)
}

func (c *MachineI2C) ReadReg(reg byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.bus.ReadRegister(c.addr, reg, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
