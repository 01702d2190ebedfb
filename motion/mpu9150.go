package motion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/imu"
)

// I2C addresses selected by the AD0 pin.
const (
	AddressAD0Low  = 0x68
	AddressAD0High = 0x69
)

const (
	defaultWakeDelay     = 3 * time.Second
	defaultSettlingReads = 8
)

type State int

const (
	StateAsleep State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "asleep"
}

type MPU9150Config struct {
	Address   byte
	Delayer   imu.Delayer
	WakeDelay time.Duration
	// SettlingReads is the number of discarded accel Z / gyro X read pairs after wake-up.
	// The 8 used by default has no documented origin.
	SettlingReads int
	Logger        *slog.Logger
}

type MPU9150Option func(*MPU9150Config)

func WithAddress(address byte) MPU9150Option {
	return func(c *MPU9150Config) {
		c.Address = address
	}
}

func WithDelayer(d imu.Delayer) MPU9150Option {
	return func(c *MPU9150Config) {
		c.Delayer = d
	}
}

func WithWakeDelay(d time.Duration) MPU9150Option {
	return func(c *MPU9150Config) {
		c.WakeDelay = d
	}
}

func WithSettlingReads(n int) MPU9150Option {
	return func(c *MPU9150Config) {
		c.SettlingReads = n
	}
}

func WithLogger(l *slog.Logger) MPU9150Option {
	return func(c *MPU9150Config) {
		c.Logger = l
	}
}

// MPU9150 represents InvenSense MPU-9150 9-axis motion tracking device, accessed in polling mode.
// See: PS-MPU-9150A-00
//
// Usage: Instantiate with NewMPU9150, call Init(ctx) once, then read registers or samples.
// The driver does no locking; callers must serialize access to the bus.
type MPU9150 struct {
	transport imu.I2CBus
	config    MPU9150Config
	state     State
}

// NewMPU9150 creates a driver for the device at AddressAD0Low unless WithAddress says otherwise.
func NewMPU9150(trans imu.I2CBus, opts ...MPU9150Option) *MPU9150 {
	config := MPU9150Config{
		Address:       AddressAD0Low,
		Delayer:       imu.TimerDelay,
		WakeDelay:     defaultWakeDelay,
		SettlingReads: defaultSettlingReads,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &MPU9150{transport: trans, config: config}
}

func (s *MPU9150) Address() byte {
	return s.config.Address
}

// State reports whether the wake-up write has been issued successfully.
// It is not read back from the device.
func (s *MPU9150) State() State {
	return s.state
}

// Init wakes the sensor, waits for it to start up and discards the first samples.
// Failures of the settling reads are logged and ignored.
func (s *MPU9150) Init(ctx context.Context) error {
	err := s.wake(ctx)
	if err != nil {
		return err
	}
	err = s.config.Delayer.Delay(ctx, s.config.WakeDelay)
	if err != nil {
		return fmt.Errorf("mpu9150: wake-up delay interrupted: %w", err)
	}
	s.settle(ctx)
	return nil
}

func (s *MPU9150) wake(ctx context.Context) error {
	// clear the sleep bit, internal 8MHz oscillator
	err := s.WriteRegister(ctx, RegPwrMgmt1, 0x00)
	if err != nil {
		return fmt.Errorf("mpu9150: could not clear sleep bit: %w", err)
	}
	s.state = StateRunning
	return nil
}

func (s *MPU9150) settle(ctx context.Context) {
	for i := range s.config.SettlingReads {
		az, err := s.ReadRegisterPair(ctx, RegAccelZOutL, RegAccelZOutH)
		if err != nil {
			s.config.Logger.DebugContext(ctx, "settling read failed", "axis", "accel_z", "iteration", i, "error", err)
		}
		gx, err := s.ReadRegisterPair(ctx, RegGyroXOutL, RegGyroXOutH)
		if err != nil {
			s.config.Logger.DebugContext(ctx, "settling read failed", "axis", "gyro_x", "iteration", i, "error", err)
		}
		s.config.Logger.DebugContext(ctx, "settling sample discarded", "iteration", i, "accel_z", az, "gyro_x", gx)
	}
}

// ReadRegister reads a single register in one combined write/read transaction.
func (s *MPU9150) ReadRegister(ctx context.Context, reg byte) (byte, error) {
	buf := []byte{0x00}
	err := s.readInto(ctx, reg, buf)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadRegisterPair reads the low then the high byte register of one 16-bit measurement
// in two separate transactions and returns the two's complement value.
func (s *MPU9150) ReadRegisterPair(ctx context.Context, low, high byte) (int16, error) {
	var lsb, msb [1]byte
	err := s.readInto(ctx, low, lsb[:])
	if err != nil {
		return 0, err
	}
	err = s.readInto(ctx, high, msb[:])
	if err != nil {
		return 0, err
	}
	return combine(lsb[0], msb[0]), nil
}

// WriteRegister writes data to reg as a single two byte transfer.
func (s *MPU9150) WriteRegister(ctx context.Context, reg, data byte) error {
	err := s.transport.WriteToAddr(ctx, s.config.Address, []byte{reg, data})
	if err != nil {
		return fmt.Errorf("mpu9150: could not write register %#x: %w", reg, imu.NewTransportError("write", s.config.Address, err))
	}
	return nil
}

func (s *MPU9150) readInto(ctx context.Context, reg byte, buf []byte) error {
	err := s.transport.Tx(ctx, s.config.Address, []byte{reg}, buf)
	if err != nil {
		return fmt.Errorf("mpu9150: could not read register %#x: %w", reg, imu.NewTransportError("tx", s.config.Address, err))
	}
	return nil
}

func combine(low, high byte) int16 {
	return int16(uint16(high)<<8 | uint16(low))
}
