package i2c

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"syscall"

	"github.com/mklimuk/imu"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var _ imu.I2CBus = &GenericBus{}

// GenericBus is an I2C bus opened through periph, typically a Linux i2c-dev node.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.Tx(ctx, address, nil, buffer)
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.Tx(ctx, address, buffer, nil)
}

// Tx issues a single combined transfer, periph uses a repeated start between w and r.
func (b *GenericBus) Tx(ctx context.Context, address byte, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return imu.NewTransportError(op(w, r), address, err)
	}
	err := b.bus.Tx(uint16(address), w, r)
	if err != nil {
		return classify(op(w, r), address, err)
	}
	return nil
}

func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	return b.bus.SetSpeed(f)
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}

func op(w, r []byte) string {
	switch {
	case len(r) == 0:
		return "write"
	case len(w) == 0:
		return "read"
	default:
		return "tx"
	}
}

// classify maps i2c-dev errno values: the kernel reports a missing ACK as
// ENXIO or EREMOTEIO depending on the controller driver.
func classify(op string, address byte, err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENXIO, errnoRemoteIO:
			return &imu.TransportError{Kind: imu.ErrKindNoAck, Op: op, Addr: address, Err: err}
		case syscall.ETIMEDOUT:
			return &imu.TransportError{Kind: imu.ErrKindTimeout, Op: op, Addr: address, Err: err}
		}
	}
	return imu.NewTransportError(op, address, err)
}
