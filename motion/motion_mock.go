package motion

import (
	"context"
)

// AxesReader is implemented by MPU9150 and MockMotionSensor.
type AxesReader interface {
	ReadAxes(ctx context.Context) (Motion, error)
}

var _ AxesReader = &MPU9150{}

// MotionBehaviorFunc defines the function signature for motion sensor behavior.
type MotionBehaviorFunc func(ctx context.Context) (Motion, error)

// MockMotionSensor is a mock implementation of a motion sensor that uses a behavior function
// to produce raw samples without requiring any hardware.
//
// Example usage:
//
//	// device lying flat at rest, 16384 LSB/g at the default ±2g range
//	sensor := NewMockMotionSensor(func(ctx context.Context) (Motion, error) {
//		return Motion{AccelZ: 16384}, nil
//	})
type MockMotionSensor struct {
	behavior MotionBehaviorFunc
}

func NewMockMotionSensor(behavior MotionBehaviorFunc) *MockMotionSensor {
	return &MockMotionSensor{behavior: behavior}
}

// ReadAxes returns the sample produced by the behavior function.
func (m *MockMotionSensor) ReadAxes(ctx context.Context) (Motion, error) {
	return m.behavior(ctx)
}

// AccelZ returns the accelerometer Z axis of the behavior sample.
func (m *MockMotionSensor) AccelZ(ctx context.Context) (int16, error) {
	s, err := m.behavior(ctx)
	return s.AccelZ, err
}

// GyroX returns the gyroscope X axis of the behavior sample.
func (m *MockMotionSensor) GyroX(ctx context.Context) (int16, error) {
	s, err := m.behavior(ctx)
	return s.GyroX, err
}
