package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/motion"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	console.SetOutput(&out, &bytes.Buffer{})
	return &out
}

func TestPrintSamples_YAML(t *testing.T) {
	out := captureOutput(t)
	n := int16(0)
	sensor := motion.NewMockMotionSensor(func(ctx context.Context) (motion.Motion, error) {
		n++
		return motion.Motion{AccelZ: 16384, GyroX: n}, nil
	})

	err := printSamples(context.Background(), sensor, 2, time.Millisecond, true)

	require.NoError(t, err)
	assert.Equal(t, `accel_x: 0
accel_y: 0
accel_z: 16384
gyro_x: 1
gyro_y: 0
gyro_z: 0
---
accel_x: 0
accel_y: 0
accel_z: 16384
gyro_x: 2
gyro_y: 0
gyro_z: 0
`, out.String())
}

func TestPrintSamples_Text(t *testing.T) {
	out := captureOutput(t)
	sensor := motion.NewMockMotionSensor(func(ctx context.Context) (motion.Motion, error) {
		return motion.Motion{AccelX: -5, GyroZ: 300}, nil
	})

	err := printSamples(context.Background(), sensor, 1, 0, false)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "accel x=    -5 y=     0 z=     0")
	assert.Contains(t, out.String(), "gyro  x=     0 y=     0 z=   300")
}

func TestPrintSamples_Error(t *testing.T) {
	captureOutput(t)
	calls := 0
	sensor := motion.NewMockMotionSensor(func(ctx context.Context) (motion.Motion, error) {
		calls++
		return motion.Motion{}, errors.New("bus closed")
	})

	err := printSamples(context.Background(), sensor, 5, 0, false)

	assert.EqualError(t, err, "bus closed")
	assert.Equal(t, 1, calls)
}

func TestPrintSamples_Cancelled(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	sensor := motion.NewMockMotionSensor(func(ctx context.Context) (motion.Motion, error) {
		calls++
		cancel()
		return motion.Motion{}, nil
	})

	err := printSamples(ctx, sensor, 10, time.Second, false)

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
