package motion

import (
	"context"
	"fmt"
)

// Motion holds raw accelerometer and gyroscope samples, no unit conversion applied.
type Motion struct {
	AccelX int16 `yaml:"accel_x"`
	AccelY int16 `yaml:"accel_y"`
	AccelZ int16 `yaml:"accel_z"`
	GyroX  int16 `yaml:"gyro_x"`
	GyroY  int16 `yaml:"gyro_y"`
	GyroZ  int16 `yaml:"gyro_z"`
}

type axis struct {
	name      string
	low, high byte
	dst       func(*Motion) *int16
}

var axes = []axis{
	{"accel_x", RegAccelXOutL, RegAccelXOutH, func(m *Motion) *int16 { return &m.AccelX }},
	{"accel_y", RegAccelYOutL, RegAccelYOutH, func(m *Motion) *int16 { return &m.AccelY }},
	{"accel_z", RegAccelZOutL, RegAccelZOutH, func(m *Motion) *int16 { return &m.AccelZ }},
	{"gyro_x", RegGyroXOutL, RegGyroXOutH, func(m *Motion) *int16 { return &m.GyroX }},
	{"gyro_y", RegGyroYOutL, RegGyroYOutH, func(m *Motion) *int16 { return &m.GyroY }},
	{"gyro_z", RegGyroZOutL, RegGyroZOutH, func(m *Motion) *int16 { return &m.GyroZ }},
}

// AccelZ returns the raw accelerometer Z axis sample.
func (s *MPU9150) AccelZ(ctx context.Context) (int16, error) {
	return s.ReadRegisterPair(ctx, RegAccelZOutL, RegAccelZOutH)
}

// GyroX returns the raw gyroscope X axis sample.
func (s *MPU9150) GyroX(ctx context.Context) (int16, error) {
	return s.ReadRegisterPair(ctx, RegGyroXOutL, RegGyroXOutH)
}

// ReadAxes reads all six axes one register pair at a time.
// Axes are not sampled atomically, values may come from different sample periods.
func (s *MPU9150) ReadAxes(ctx context.Context) (Motion, error) {
	var m Motion
	for _, a := range axes {
		v, err := s.ReadRegisterPair(ctx, a.low, a.high)
		if err != nil {
			return m, fmt.Errorf("mpu9150: could not read %s: %w", a.name, err)
		}
		*a.dst(&m) = v
	}
	return m, nil
}

// WhoAmI returns the device identity register, WhoAmIValue for a genuine part.
func (s *MPU9150) WhoAmI(ctx context.Context) (byte, error) {
	return s.ReadRegister(ctx, RegWhoAmI)
}
