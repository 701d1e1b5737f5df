//go:build tinygo

// Bare-metal variant of the tilt producer for the RP2040 (Pico). Same
// core pipeline and wire protocol as cmd/tilt_producer; only the bus
// adapter and the process wrapper differ. Output goes to the USB
// serial console, which the downstream consumer reads line by line.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/relabs-tech/tilt_streamer/internal/adxl343"
	"github.com/relabs-tech/tilt_streamer/internal/bus"
	"github.com/relabs-tech/tilt_streamer/internal/calib"
	"github.com/relabs-tech/tilt_streamer/internal/orientation"
	"github.com/relabs-tech/tilt_streamer/internal/stream"
	"github.com/relabs-tech/tilt_streamer/internal/wire"
)

const (
	sdaPin  = machine.GP4
	sclPin  = machine.GP5
	i2cFreq = 400 * machine.KHz
)

func main() {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       sdaPin,
		SCL:       sclPin,
		Frequency: i2cFreq,
	}); err != nil {
		fatal("I2C configure", err)
	}

	dev := adxl343.New(bus.NewMachineI2C(i2c, adxl343.DefaultAddr))
	if err := dev.Init(); err != nil {
		fatal("ADXL343 init failed, check wiring", err)
	}

	src := orientation.NewSensorSource(dev)

	off, err := calib.New(src).Run()
	if err != nil {
		fatal("calibration", err)
	}

	// The loop never returns on hardware.
	st := stream.New(src, off, wire.NewStdoutSink())
	_ = st.Run(context.Background())
}

// fatal halts the board after reporting the error on the serial
// console. There is no recovery from a missing sensor.
func fatal(msg string, err error) {
	for {
		println("fatal:", msg, err.Error())
		time.Sleep(5 * time.Second)
	}
}
