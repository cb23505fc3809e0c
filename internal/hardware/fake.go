package hardware

import "sync"

// FakeSink records channel levels for test assertions.
type FakeSink struct {
	mu sync.Mutex

	// Levels holds the last level written per channel.
	Levels map[int]bool

	// Writes counts SetChannel calls.
	Writes int

	// SetError, if set, is returned by SetChannel without recording.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSink creates an empty FakeSink.
func NewFakeSink() *FakeSink {
	return &FakeSink{Levels: make(map[int]bool)}
}

func (f *FakeSink) SetChannel(channel int, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.Levels[channel] = active
	f.Writes++
	return nil
}

func (f *FakeSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Snapshot returns a copy of the recorded levels.
func (f *FakeSink) Snapshot() map[int]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]bool, len(f.Levels))
	for k, v := range f.Levels {
		out[k] = v
	}
	return out
}
