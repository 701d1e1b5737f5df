package adxl343

// Register map of the ADXL343. The device is register-compatible with
// the ADXL345; only the registers this driver touches plus the ones
// the register debug tool dumps are listed.
const (
	RegDevID      = 0x00 // Device ID, reads 0xE5
	RegThreshTap  = 0x1D // Tap threshold
	RegOfsX       = 0x1E // X-axis offset
	RegOfsY       = 0x1F // Y-axis offset
	RegOfsZ       = 0x20 // Z-axis offset
	RegBwRate     = 0x2C // Data rate and power mode control
	RegPowerCtl   = 0x2D // Power saving features control
	RegIntEnable  = 0x2E // Interrupt enable control
	RegIntSource  = 0x30 // Source of interrupts
	RegDataFormat = 0x31 // Data format control
	RegDataX0     = 0x32 // X-Axis Data 0, start of the 6-byte XYZ block
	RegFifoCtl    = 0x38 // FIFO control
	RegFifoStatus = 0x39 // FIFO status
)

const (
	// DefaultAddr is the default 7-bit I2C address. Pulling the ALT
	// ADDRESS pin high moves the device to 0x1D.
	DefaultAddr = 0x53

	// DeviceID is the expected RegDevID value.
	DeviceID = 0xE5

	// measureMode enables continuous measurement in RegPowerCtl.
	measureMode = 0x08

	// CountsPerG is the fixed sensitivity: raw counts per 1 g.
	CountsPerG = 256.0
)
