package mqtt

import "home_thermostat/internal/models"

// FakePublisher records published states for test assertions.
type FakePublisher struct {
	// States contains all states that were published.
	States []models.ThermostatState

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, will be returned by PublishState.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) PublishState(state models.ThermostatState) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(state)
	if err != nil {
		return err
	}
	f.States = append(f.States, state)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}
