// Package bus abstracts the register-oriented transport between the
// tilt streamer core and the accelerometer. The core only ever needs
// two operations: write N bytes starting at a register, and read N
// bytes starting at a register. Each host supplies its own adapter
// (Linux I2C character device, bare-metal I2C peripheral, test
// playback).
package bus

// Bus is a register-oriented transport to a single device. Every call
// either fully succeeds or fails; there are no partial transfers.
type Bus interface {
	// WriteReg writes data starting at register reg.
	WriteReg(reg byte, data []byte) error

	// ReadReg sets the register pointer to reg and reads n bytes back.
	ReadReg(reg byte, n int) ([]byte, error)
}
