//go:build linux

package hardware

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOSink drives relay lines on a GPIO chip. Lines are requested as
// outputs the first time they are written.
type GPIOSink struct {
	mu        sync.Mutex
	chip      *gpiocdev.Chip
	lines     map[int]*gpiocdev.Line
	activeLow bool
}

// NewGPIOSink opens the named chip.
func NewGPIOSink(chipName string, activeLow bool) (*GPIOSink, error) {
	if chipName == "" {
		chipName = "gpiochip0"
	}
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &GPIOSink{
		chip:      chip,
		lines:     make(map[int]*gpiocdev.Line),
		activeLow: activeLow,
	}, nil
}

func (s *GPIOSink) level(active bool) int {
	if active != s.activeLow {
		return 1
	}
	return 0
}

// SetChannel drives the line at offset channel.
func (s *GPIOSink) SetChannel(channel int, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.level(active)
	line, ok := s.lines[channel]
	if !ok {
		l, err := s.chip.RequestLine(channel, gpiocdev.AsOutput(value))
		if err != nil {
			return fmt.Errorf("request line %d: %w", channel, err)
		}
		s.lines[channel] = l
		return nil
	}
	if err := line.SetValue(value); err != nil {
		return fmt.Errorf("set line %d: %w", channel, err)
	}
	return nil
}

// Close releases lines and chip. Released lines hold their last level, so a
// one-shot update leaves the relays as it applied them.
func (s *GPIOSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for offset, line := range s.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", offset, err))
		}
	}
	s.lines = map[int]*gpiocdev.Line{}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}
