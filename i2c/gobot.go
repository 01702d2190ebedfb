package i2c

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/imu"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

var _ imu.I2CBus = &GobotBus{}

// GobotBus adapts any gobot I2C connector (Raspberry Pi, NanoPi, Tinkerboard...) to imu.I2CBus.
// Connections are opened lazily, one per device address.
type GobotBus struct {
	mx        sync.Mutex
	connector gobot.Connector
	busNr     int
	conns     map[byte]gobot.Connection
}

func NewGobotBus(connector gobot.Connector, busNr int) *GobotBus {
	return &GobotBus{
		connector: connector,
		busNr:     busNr,
		conns:     make(map[byte]gobot.Connection),
	}
}

func (b *GobotBus) conn(address byte) (gobot.Connection, error) {
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c connection to %#x on bus %d: %w", address, b.busNr, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.Tx(ctx, address, nil, buffer)
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.Tx(ctx, address, buffer, nil)
}

// Tx maps a one byte register write followed by a one byte read to the SMBus
// "read byte data" transfer, which uses a repeated start. Other shapes are sent
// as separate write and read transfers.
func (b *GobotBus) Tx(ctx context.Context, address byte, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return imu.NewTransportError(op(w, r), address, err)
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return imu.NewTransportError(op(w, r), address, err)
	}
	if len(w) == 1 && len(r) == 1 {
		v, err := c.ReadByteData(w[0])
		if err != nil {
			return classify("tx", address, err)
		}
		r[0] = v
		return nil
	}
	if len(w) > 0 {
		err = c.WriteBytes(w)
		if err != nil {
			return classify("write", address, err)
		}
	}
	if len(r) > 0 {
		n, err := c.Read(r)
		if err != nil {
			return classify("read", address, err)
		}
		if n != len(r) {
			return imu.ShortTransfer("read", address, len(r), n)
		}
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close closes all connections opened so far.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close connection to %#x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return firstErr
}
