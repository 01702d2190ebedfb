package motion

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of imu.I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Tx(ctx context.Context, address byte, w, r []byte) error {
	args := m.Called(ctx, address, w, r)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(r) {
		copy(r, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// methods returns the names of the recorded calls in order.
func (m *MockI2CBus) methods() []string {
	var res []string
	for _, c := range m.Calls {
		res = append(res, c.Method)
	}
	return res
}

// recordingDelayer remembers requested delays and how many bus calls preceded each one.
type recordingDelayer struct {
	bus    *MockI2CBus
	delays []time.Duration
	after  []int
	err    error
}

func (d *recordingDelayer) Delay(ctx context.Context, dur time.Duration) error {
	d.delays = append(d.delays, dur)
	d.after = append(d.after, len(d.bus.Calls))
	return d.err
}

func reg(r byte) []byte {
	return []byte{r}
}
