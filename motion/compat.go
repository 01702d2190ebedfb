package motion

import (
	"context"
)

// Compat exposes the MPU9150 with the error behavior of the legacy CC3200 polling driver:
// reads always return a value, writes always report success and Init never fails.
// Transport errors are only visible in debug logs.
type Compat struct {
	sensor *MPU9150
}

func NewCompat(sensor *MPU9150) *Compat {
	return &Compat{sensor: sensor}
}

func (c *Compat) Sensor() *MPU9150 {
	return c.sensor
}

// Init wakes the sensor, waits and performs the settling reads even if the wake-up write failed.
// The sensor is assumed to be running once the wake-up write has been issued.
func (c *Compat) Init(ctx context.Context) {
	err := c.sensor.wake(ctx)
	if err != nil {
		c.sensor.config.Logger.DebugContext(ctx, "wake-up write ignored", "error", err)
	}
	c.sensor.state = StateRunning
	err = c.sensor.config.Delayer.Delay(ctx, c.sensor.config.WakeDelay)
	if err != nil {
		c.sensor.config.Logger.DebugContext(ctx, "wake-up delay ignored", "error", err)
	}
	for range c.sensor.config.SettlingReads {
		c.ReadRegisterPair(ctx, RegAccelZOutL, RegAccelZOutH)
		c.ReadRegisterPair(ctx, RegGyroXOutL, RegGyroXOutH)
	}
}

// ReadRegister returns the register value in [0, 255], or 0 when the transfer failed.
func (c *Compat) ReadRegister(ctx context.Context, reg byte) int {
	buf := []byte{0x00}
	c.read(ctx, reg, buf)
	return int(buf[0])
}

// ReadRegisterPair always issues both reads and returns the sign-extended sample.
func (c *Compat) ReadRegisterPair(ctx context.Context, low, high byte) int {
	lsb := []byte{0x00}
	msb := []byte{0x00}
	c.read(ctx, low, lsb)
	c.read(ctx, high, msb)
	return int(combine(lsb[0], msb[0]))
}

// WriteRegister always returns true.
func (c *Compat) WriteRegister(ctx context.Context, reg, data byte) bool {
	err := c.sensor.WriteRegister(ctx, reg, data)
	if err != nil {
		c.sensor.config.Logger.DebugContext(ctx, "register write ignored", "register", reg, "error", err)
	}
	return true
}

func (c *Compat) read(ctx context.Context, reg byte, buf []byte) {
	err := c.sensor.readInto(ctx, reg, buf)
	if err != nil {
		c.sensor.config.Logger.DebugContext(ctx, "register read ignored", "register", reg, "error", err)
	}
}
