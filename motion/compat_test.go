package motion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/imu"
)

// The compat facade reproduces the legacy CC3200 driver, which never reported bus failures.
// These tests pin that behavior for compatibility; they do not assert it is correct.

func TestCompat_WriteRegisterAlwaysSucceeds(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ok", nil},
		{"nack", imu.ErrNoAck},
		{"timeout", context.DeadlineExceeded},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			bus.On("WriteToAddr", mock.Anything, byte(AddressAD0Low), []byte{RegPwrMgmt1, 0x40}).Return(test.err).Once()

			ok := NewCompat(NewMPU9150(bus)).WriteRegister(context.Background(), RegPwrMgmt1, 0x40)

			assert.True(t, ok)
			bus.AssertExpectations(t)
		})
	}
}

func TestCompat_ReadRegister(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("Tx", mock.Anything, byte(AddressAD0Low), reg(RegAccelZOutH), mock.Anything).Return([]byte{0xF0}, nil).Once()

	v := NewCompat(NewMPU9150(bus)).ReadRegister(context.Background(), RegAccelZOutH)

	// no sign extension
	assert.Equal(t, 240, v)
}

func TestCompat_ReadRegisterFailure(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("Tx", mock.Anything, byte(AddressAD0Low), reg(RegWhoAmI), mock.Anything).Return(nil, imu.ErrNoAck).Once()

	v := NewCompat(NewMPU9150(bus)).ReadRegister(context.Background(), RegWhoAmI)

	assert.Equal(t, 0, v)
}

func TestCompat_ReadRegisterPair(t *testing.T) {
	tests := []struct {
		low, high byte
		expected  int
	}{
		{0xFF, 0xFF, -1},
		{0x00, 0x80, -32768},
		{0xFF, 0x7F, 32767},
	}
	for _, test := range tests {
		bus := new(MockI2CBus)
		bus.On("Tx", mock.Anything, byte(AddressAD0Low), reg(RegGyroXOutL), mock.Anything).Return([]byte{test.low}, nil).Once()
		bus.On("Tx", mock.Anything, byte(AddressAD0Low), reg(RegGyroXOutH), mock.Anything).Return([]byte{test.high}, nil).Once()

		v := NewCompat(NewMPU9150(bus)).ReadRegisterPair(context.Background(), RegGyroXOutL, RegGyroXOutH)

		assert.Equal(t, test.expected, v)
		bus.AssertExpectations(t)
	}
}

func TestCompat_ReadRegisterPairIssuesBothReadsOnFailure(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("Tx", mock.Anything, byte(AddressAD0Low), reg(RegAccelZOutL), mock.Anything).Return(nil, imu.ErrNoAck).Once()
	bus.On("Tx", mock.Anything, byte(AddressAD0Low), reg(RegAccelZOutH), mock.Anything).Return([]byte{0x01}, nil).Once()

	v := NewCompat(NewMPU9150(bus)).ReadRegisterPair(context.Background(), RegAccelZOutL, RegAccelZOutH)

	assert.Equal(t, 256, v)
	bus.AssertExpectations(t)
}

func TestCompat_InitNeverFails(t *testing.T) {
	bus := new(MockI2CBus)
	delayer := &recordingDelayer{bus: bus, err: context.Canceled}
	bus.On("WriteToAddr", mock.Anything, byte(AddressAD0Low), []byte{RegPwrMgmt1, 0x00}).Return(imu.ErrNoAck).Once()
	bus.On("Tx", mock.Anything, byte(AddressAD0Low), mock.Anything, mock.Anything).Return(nil, imu.ErrTimeout)

	sensor := NewMPU9150(bus, WithDelayer(delayer), WithWakeDelay(10*time.Millisecond))
	NewCompat(sensor).Init(context.Background())

	methods := bus.methods()
	require.Len(t, methods, 33)
	assert.Equal(t, "WriteToAddr", methods[0])
	assert.Equal(t, []int{1}, delayer.after)
	bus.AssertNumberOfCalls(t, "Tx", 32)
	assert.Equal(t, StateRunning, sensor.State(), "state follows the issued write, not its outcome")
}

func TestCompat_InitStateAfterFailedWake(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(AddressAD0Low), []byte{RegPwrMgmt1, 0x00}).Return(imu.ErrNoAck)
	bus.On("Tx", mock.Anything, byte(AddressAD0Low), mock.Anything, mock.Anything).Return([]byte{0x00}, nil)
	sensor := NewMPU9150(bus, WithDelayer(&recordingDelayer{bus: bus}), WithSettlingReads(1))

	require.Error(t, sensor.Init(context.Background()))
	require.Equal(t, StateAsleep, sensor.State(), "hardened init reports the failed wake")

	NewCompat(sensor).Init(context.Background())

	assert.Equal(t, StateRunning, sensor.State(), "compat init treats the wake-up write as done")
}

func TestCompat_InitOrder(t *testing.T) {
	bus := new(MockI2CBus)
	delayer := &recordingDelayer{bus: bus}
	bus.On("WriteToAddr", mock.Anything, byte(AddressAD0High), []byte{RegPwrMgmt1, 0x00}).Return(nil).Once()
	bus.On("Tx", mock.Anything, byte(AddressAD0High), mock.Anything, mock.Anything).Return([]byte{0x7F}, nil)

	compat := NewCompat(NewMPU9150(bus, WithAddress(AddressAD0High), WithDelayer(delayer)))
	compat.Init(context.Background())

	assert.Equal(t, StateRunning, compat.Sensor().State())
	assert.Equal(t, []time.Duration{defaultWakeDelay}, delayer.delays)
	expected := [][]byte{reg(RegAccelZOutL), reg(RegAccelZOutH), reg(RegGyroXOutL), reg(RegGyroXOutH)}
	for i, c := range bus.Calls[1:] {
		assert.Equal(t, expected[i%4], c.Arguments.Get(2))
	}
	bus.AssertExpectations(t)
}
