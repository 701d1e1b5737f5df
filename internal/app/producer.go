// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/tilt_streamer/internal/adxl343"
	"github.com/relabs-tech/tilt_streamer/internal/bus"
	"github.com/relabs-tech/tilt_streamer/internal/calib"
	"github.com/relabs-tech/tilt_streamer/internal/config"
	"github.com/relabs-tech/tilt_streamer/internal/orientation"
	"github.com/relabs-tech/tilt_streamer/internal/stream"
	"github.com/relabs-tech/tilt_streamer/internal/wire"
)

// RunTiltProducer is the Linux host entry point: open the bus, wake
// the sensor, calibrate the zero pose, then stream filtered tilt lines
// until the process is terminated. A sensor that cannot be woken is
// fatal; there is no retry policy for a missing or miswired device.
func RunTiltProducer() error {
	cfg := config.Get()

	src, cleanup, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sink, closeSinks, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	log.Printf("producer: calibrating, hold the device in the neutral pose (%d samples)", calib.SampleCount)
	off, err := calib.New(src).Run()
	if err != nil {
		return fmt.Errorf("calibration: %w", err)
	}
	log.Printf("producer: calibration offsets roll=%.4f pitch=%.4f rad", off.Roll, off.Pitch)

	log.Println("producer: starting stream loop")
	return stream.New(src, off, sink).Run(context.Background())
}

// buildSource opens the configured tilt source. The returned cleanup
// closes the bus handle on the sensor path and is a no-op for the
// mock.
func buildSource(cfg *config.Config) (orientation.Source, func(), error) {
	if cfg.Source == "mock" {
		log.Println("producer: using mock tilt source")
		return orientation.NewMockSource(), func() {}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("periph host init: %w", err)
	}

	b, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, nil, fmt.Errorf("open I2C bus %q: %w", cfg.I2CBus, err)
	}

	dev := adxl343.New(bus.NewI2C(b, cfg.ADXL343Addr))
	if err := dev.Init(); err != nil {
		b.Close()
		return nil, nil, fmt.Errorf("ADXL343 init failed, check wiring and I2C address 0x%02X: %w", cfg.ADXL343Addr, err)
	}
	log.Printf("producer: ADXL343 initialized on %s @ 0x%02X", b, cfg.ADXL343Addr)

	return orientation.NewSensorSource(dev), func() { b.Close() }, nil
}

// buildSinks assembles the OUTPUT list into a single sink.
func buildSinks(cfg *config.Config) (wire.Sink, func(), error) {
	var (
		sinks    wire.MultiSink
		closers  []func()
		closeAll = func() {
			for _, c := range closers {
				c()
			}
		}
	)

	if cfg.HasOutput("stdout") {
		sinks = append(sinks, wire.NewStdoutSink())
	}
	if cfg.HasOutput("serial") {
		s, err := wire.NewSerialSink(cfg.SerialPort, cfg.SerialBaud)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, s)
		closers = append(closers, func() { s.Close() })
	}
	if cfg.HasOutput("mqtt") {
		s, err := wire.NewMQTTSink(cfg.MQTTBroker, cfg.MQTTClientIDProducer, cfg.TopicTilt)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		log.Printf("producer: publishing tilt to %s on %s", cfg.TopicTilt, cfg.MQTTBroker)
		sinks = append(sinks, s)
		closers = append(closers, s.Close)
	}

	if len(sinks) == 0 {
		return nil, nil, fmt.Errorf("no output sinks configured (OUTPUT=%q)", cfg.Output)
	}
	if len(sinks) == 1 {
		return sinks[0], closeAll, nil
	}
	return sinks, closeAll, nil
}
