//go:build !linux

package hardware

import "errors"

// GPIOSink is not available on non-Linux platforms.
type GPIOSink struct{}

// NewGPIOSink returns an error on non-Linux platforms.
func NewGPIOSink(string, bool) (*GPIOSink, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

func (*GPIOSink) SetChannel(int, bool) error {
	return errors.New("gpio: not supported")
}

func (*GPIOSink) Close() error {
	return nil
}
