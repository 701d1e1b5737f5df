package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values. Only platform
// wiring lives here; the sensor cadence, calibration window and filter
// constants are fixed at build time because they are part of the wire
// protocol contract.
type Config struct {
	// Sensor bus
	I2CBus      string // periph bus name, "" picks the first available
	ADXL343Addr uint16

	// Source selection: "sensor" or "mock"
	Source string

	// Output selection: comma-separated list of "stdout", "serial", "mqtt"
	Output string

	// Serial output
	SerialPort string
	SerialBaud uint

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string
	TopicTilt            string

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for the singleton:
//   - globalConfig is unexported so other packages cannot modify it
//     without proper locking.
//   - configOnce ensures InitGlobal only runs once.
//   - configMu protects concurrent access; Get takes the read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		ADXL343Addr:           0x53,
		Source:                "sensor",
		Output:                "stdout",
		SerialBaud:            115200,
		MQTTClientIDProducer:  "tilt-producer",
		MQTTClientIDConsole:   "tilt-console-subscriber",
		MQTTClientIDWeb:       "tilt-web-subscriber",
		MQTTClientIDDisplay:   "tilt-display-subscriber",
		TopicTilt:             "tilt/orientation",
		WebServerPort:         8080,
		DisplayUpdateInterval: 200,
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Sensor bus
	case "I2C_BUS":
		c.I2CBus = value
	case "ADXL343_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid ADXL343_ADDR %q: %w", value, err)
		}
		c.ADXL343Addr = uint16(addr)

	// Source
	case "SOURCE":
		if value != "sensor" && value != "mock" {
			return fmt.Errorf("SOURCE must be \"sensor\" or \"mock\", got %q", value)
		}
		c.Source = value

	// Output
	case "OUTPUT":
		for _, out := range strings.Split(value, ",") {
			switch strings.TrimSpace(out) {
			case "stdout", "serial", "mqtt":
			default:
				return fmt.Errorf("OUTPUT entries must be stdout, serial or mqtt, got %q", out)
			}
		}
		c.Output = value

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD %q: %w", value, err)
		}
		c.SerialBaud = uint(rate)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "TOPIC_TILT":
		c.TopicTilt = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// HasOutput reports whether the OUTPUT list contains the given sink.
func (c *Config) HasOutput(name string) bool {
	for _, out := range strings.Split(c.Output, ",") {
		if strings.TrimSpace(out) == name {
			return true
		}
	}
	return false
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.HasOutput("serial") && c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required when OUTPUT includes serial")
	}
	if c.HasOutput("mqtt") && c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required when OUTPUT includes mqtt")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses
// sync.Once so repeated calls are harmless.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be
// called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
