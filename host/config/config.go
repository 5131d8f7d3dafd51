// Package config loads the host-side settings for the pendulum link from a
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v2"
)

// Config holds everything the host tools need to talk to the board and
// interpret its readings. The board itself is configured at compile time;
// none of this is negotiated over the link.
type Config struct {
	// Device is the serial port path. Empty means auto-detect the first
	// USB serial port.
	Device string `yaml:"device" env:"PENDULUM_DEVICE"`

	// Baud is the link baud rate.
	Baud int `yaml:"baud" env:"PENDULUM_BAUD"`

	// CommandLimit bounds the motor command magnitude sent to the board.
	CommandLimit int `yaml:"command_limit"`

	// FrictionThreshold is the minimum non-zero command magnitude; smaller
	// drive values stall against static friction.
	FrictionThreshold int `yaml:"friction_threshold"`

	// MaxControlInput is the controller output magnitude that maps to a
	// full-scale motor command.
	MaxControlInput float64 `yaml:"max_control_input"`

	// MaxAngleDeg is the allowed pendulum deviation from upright before
	// the host forces a zero command.
	MaxAngleDeg float64 `yaml:"max_angle_deg"`

	// MaxPositionMM is the allowed cart distance from rail center before
	// the host forces a zero command.
	MaxPositionMM float64 `yaml:"max_position_mm"`

	// TravelTicks is the cart encoder count across the full rail.
	TravelTicks int `yaml:"travel_ticks"`

	// TicksPerMM converts cart ticks to millimeters.
	TicksPerMM float64 `yaml:"ticks_per_mm"`

	// MQTTBroker enables telemetry republishing when non-empty,
	// e.g. "tcp://localhost:1883".
	MQTTBroker string `yaml:"mqtt_broker" env:"PENDULUM_MQTT_BROKER"`

	// MQTTTopic is the topic telemetry samples are published to.
	MQTTTopic string `yaml:"mqtt_topic" env:"PENDULUM_MQTT_TOPIC"`
}

// Default returns the stock configuration for the reference rig.
func Default() *Config {
	return &Config{
		Baud:              115200,
		CommandLimit:      255,
		FrictionThreshold: 10,
		MaxControlInput:   100,
		MaxAngleDeg:       15,
		MaxPositionMM:     220,
		TravelTicks:       16220,
		TicksPerMM:        27,
		MQTTTopic:         "pendulum/state",
	}
}

// Load reads the configuration file at path (skipped when empty), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.CommandLimit <= 0 || c.CommandLimit > 32767 {
		return fmt.Errorf("command_limit must be in (0, 32767], got %d", c.CommandLimit)
	}
	if c.FrictionThreshold < 0 || c.FrictionThreshold >= c.CommandLimit {
		return fmt.Errorf("friction_threshold must be in [0, command_limit), got %d", c.FrictionThreshold)
	}
	if c.MaxControlInput <= 0 {
		return fmt.Errorf("max_control_input must be positive, got %v", c.MaxControlInput)
	}
	if c.TicksPerMM <= 0 {
		return fmt.Errorf("ticks_per_mm must be positive, got %v", c.TicksPerMM)
	}
	return nil
}
