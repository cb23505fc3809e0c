// Package hardware drives the HVAC relay outputs.
// The real implementation uses the Linux GPIO character device.
// The null sink is used when no hardware is attached; the fake records
// levels for tests.
package hardware

import (
	"home_thermostat/internal/logger"
)

// Sink drives named output channels. Only the state applier writes to it.
type Sink interface {
	// SetChannel drives the channel active or inactive.
	SetChannel(channel int, active bool) error

	// Close releases the channels.
	Close() error
}

// NullSink accepts every command and drives nothing.
type NullSink struct{}

func (NullSink) SetChannel(int, bool) error { return nil }
func (NullSink) Close() error { return nil }

// Config selects and configures the sink at startup.
type Config struct {
	Enabled   bool
	Chip      string // e.g. "gpiochip0"
	ActiveLow bool   // relay boards that switch on a low level
}

// Open returns the GPIO sink, or a NullSink when hardware is disabled or
// unavailable. The fallback is logged once here rather than on every write.
func Open(cfg Config, log *logger.Logger) Sink {
	log = logger.OrNop(log)
	if !cfg.Enabled {
		log.Infow("hardware_disabled", "reason", "hardware.enabled=false")
		return NullSink{}
	}
	sink, err := NewGPIOSink(cfg.Chip, cfg.ActiveLow)
	if err != nil {
		log.Warnw("hardware_unavailable", "chip", cfg.Chip, "err", err)
		return NullSink{}
	}
	return sink
}
