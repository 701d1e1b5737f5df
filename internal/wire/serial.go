//go:build !tinygo

package wire

import (
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialSink emits wire lines over a serial port, the transport the
// original hardware setup uses between the sensor host and the
// consumer.
type SerialSink struct {
	*WriterSink
	port io.ReadWriteCloser
}

// NewSerialSink opens the serial port and wraps it as a sink.
func NewSerialSink(portName string, baudRate uint) (*SerialSink, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	log.Printf("wire: serial port opened on %s at %d baud", portName, baudRate)

	return &SerialSink{
		WriterSink: NewWriterSink(port),
		port:       port,
	}, nil
}

func (s *SerialSink) Close() error {
	return s.port.Close()
}
