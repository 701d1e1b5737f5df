package app

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/tilt_streamer/internal/adxl343"
	"github.com/relabs-tech/tilt_streamer/internal/bus"
	"github.com/relabs-tech/tilt_streamer/internal/config"
)

// registerNames maps the dumped registers to datasheet names.
var registerNames = []struct {
	addr byte
	name string
}{
	{adxl343.RegDevID, "DEVID"},
	{adxl343.RegThreshTap, "THRESH_TAP"},
	{adxl343.RegOfsX, "OFSX"},
	{adxl343.RegOfsY, "OFSY"},
	{adxl343.RegOfsZ, "OFSZ"},
	{adxl343.RegBwRate, "BW_RATE"},
	{adxl343.RegPowerCtl, "POWER_CTL"},
	{adxl343.RegIntEnable, "INT_ENABLE"},
	{adxl343.RegIntSource, "INT_SOURCE"},
	{adxl343.RegDataFormat, "DATA_FORMAT"},
	{adxl343.RegFifoCtl, "FIFO_CTL"},
	{adxl343.RegFifoStatus, "FIFO_STATUS"},
}

// RunRegisterDebug dumps the ADXL343 control registers and one raw
// acceleration sample, for bring-up of a new wiring.
func RunRegisterDebug() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	b, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open I2C bus %q: %w", cfg.I2CBus, err)
	}
	defer b.Close()

	dev := adxl343.New(bus.NewI2C(b, cfg.ADXL343Addr))

	id, err := dev.ReadDeviceID()
	if err != nil {
		return fmt.Errorf("read device ID: %w", err)
	}
	if id != adxl343.DeviceID {
		log.Printf("register_debug: WARNING: DEVID 0x%02X, expected 0x%02X — wrong device or address?", id, adxl343.DeviceID)
	}

	fmt.Printf("ADXL343 @ 0x%02X on bus %q\n", cfg.ADXL343Addr, cfg.I2CBus)
	for _, r := range registerNames {
		v, err := dev.ReadRegister(r.addr)
		if err != nil {
			return fmt.Errorf("read %s (0x%02X): %w", r.name, r.addr, err)
		}
		fmt.Printf("  0x%02X %-12s = 0x%02X\n", r.addr, r.name, v)
	}

	if err := dev.Init(); err != nil {
		return err
	}
	v, err := dev.ReadAccel()
	if err != nil {
		return err
	}
	fmt.Printf("sample: %s\n", v)
	return nil
}
