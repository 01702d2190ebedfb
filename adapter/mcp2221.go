package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/snsctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

var _ imu.I2CBus = &MCP2221{}

var ErrCommandFailed = errors.New("command failed")
var ErrDeviceNotFound = errors.New("MCP2221 device not found")

// HID commands, see MCP2221A datasheet section 3.1
const (
	cmdStatusSetParams    = 0x10
	cmdGetI2CData         = 0x40
	cmdWriteData          = 0x90
	cmdReadData           = 0x91
	cmdReadDataRepStart   = 0x93
	cmdWriteDataNoStop    = 0x94
	subCmdCancelTransfer  = 0x10
	subCmdSetSpeed        = 0x20
	respSpeedNotSet       = 0x21
	respI2CReadError      = 0x41
	respInvalidDataLength = 127
)

// I2C engine states reported at offset 8 of the status response
const (
	stateStartTimeout     = 0x12
	stateWriteAddrTimeout = 0x23
	stateAddrNack         = 0x25
	stateWriteDataTimeout = 0x44
	stateReadDataTimeout  = 0x62
)

const maxTransferSize = 60

// I2C clock is derived from the 12MHz system clock: divider = 12MHz/speed - 3.
const (
	MinSpeed = 12_000_000 / (0xFF + 3)
	MaxSpeed = 400_000
)

var ErrInvalidSpeed = errors.New("unsupported bus speed")

// hidDevice is the part of a HID handle the adapter uses.
type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// MCP2221 is a Microchip MCP2221(A) USB to I2C bridge.
// All exchanges with the device are serialized.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	id           []int
	openDevice   func() (hidDevice, error)
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	I2CState               byte   `yaml:"i2c_state"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

// NewMCP2221 creates an adapter for the only connected MCP2221 or for the one with the given enumeration index.
func NewMCP2221(id ...int) *MCP2221 {
	d := &MCP2221{
		request:      make([]byte, 64),
		response:     make([]byte, 64),
		responseWait: 50 * time.Millisecond,
		id:           id,
	}
	d.openDevice = d.openHID
	return d
}

// Init checks that the adapter is present and responding.
func (d *MCP2221) Init() error {
	_, err := d.Status(context.Background())
	if err != nil {
		return fmt.Errorf("adapter not responding: %w", err)
	}
	return nil
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.write(ctx, cmdWriteData, address, buffer)
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.read(ctx, cmdReadData, address, buffer)
}

// Tx writes w without a stop condition and reads r after a repeated start.
func (d *MCP2221) Tx(ctx context.Context, address byte, w, r []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	switch {
	case len(r) == 0:
		return d.write(ctx, cmdWriteData, address, w)
	case len(w) == 0:
		return d.read(ctx, cmdReadData, address, r)
	}
	err := d.write(ctx, cmdWriteDataNoStop, address, w)
	if err != nil {
		return err
	}
	return d.read(ctx, cmdReadDataRepStart, address, r)
}

func (d *MCP2221) write(ctx context.Context, cmd byte, address byte, buffer []byte) error {
	if len(buffer) > maxTransferSize {
		return fmt.Errorf("write of %d bytes exceeds single report size", len(buffer))
	}
	d.resetBuffers()
	d.request[0] = cmd
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send(ctx)
	if err != nil {
		return imu.NewTransportError("write", address, fmt.Errorf("write to %x failed: %w", address, err))
	}
	// write could not be performed
	if d.response[1] == 0x01 {
		slog.DebugContext(ctx, "adapter busy")
		return imu.NewTransportError("write", address, imu.ErrBusBusy)
	}
	return nil
}

func (d *MCP2221) read(ctx context.Context, cmd byte, address byte, buffer []byte) error {
	if len(buffer) > maxTransferSize {
		return fmt.Errorf("read of %d bytes exceeds single report size", len(buffer))
	}
	d.resetBuffers()
	d.request[0] = cmd
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx)
	if err != nil {
		return imu.NewTransportError("read", address, fmt.Errorf("bus read from %x failed: %w", address, err))
	}
	if d.response[1] == 0x01 {
		return imu.NewTransportError("read", address, imu.ErrBusBusy)
	}
	d.resetBuffers()
	d.request[0] = cmdGetI2CData
	err = d.send(ctx)
	if err != nil {
		return imu.NewTransportError("read", address, fmt.Errorf("error getting read data from adapter: %w", err))
	}
	if d.response[1] == respI2CReadError {
		return d.engineError(ctx, "read", address)
	}
	if d.response[3] == respInvalidDataLength || int(d.response[3]) != len(buffer) {
		return imu.ShortTransfer("read", address, len(buffer), int(d.response[3]))
	}
	copy(buffer, d.response[4:])
	return nil
}

// engineError queries the I2C engine state to tell a missing ACK from a timeout.
func (d *MCP2221) engineError(ctx context.Context, op string, address byte) error {
	status, err := d.status(ctx, 0x00)
	if err != nil {
		return imu.NewTransportError(op, address, fmt.Errorf("I2C engine error, state unknown: %w", err))
	}
	kind := imu.ErrKindBus
	switch status.I2CState {
	case stateAddrNack:
		kind = imu.ErrKindNoAck
	case stateStartTimeout, stateWriteAddrTimeout, stateWriteDataTimeout, stateReadDataTimeout:
		kind = imu.ErrKindTimeout
	}
	return &imu.TransportError{
		Kind: kind,
		Op:   op,
		Addr: address,
		Err:  fmt.Errorf("I2C engine state %#x", status.I2CState),
	}
}

// SetSpeed sets the I2C clock in Hz, between MinSpeed and MaxSpeed.
func (d *MCP2221) SetSpeed(ctx context.Context, hz int) error {
	divider, err := speedDivider(hz)
	if err != nil {
		return err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[3] = subCmdSetSpeed
	d.request[4] = divider
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("set speed request failed: %w", err)
	}
	if d.response[3] == respSpeedNotSet {
		return ErrCommandFailed
	}
	return nil
}

func speedDivider(hz int) (byte, error) {
	if hz < MinSpeed || hz > MaxSpeed {
		return 0, fmt.Errorf("%d Hz outside %d..%d Hz: %w", hz, MinSpeed, MaxSpeed, ErrInvalidSpeed)
	}
	divider := 12_000_000/hz - 3
	if divider < 0 || divider > 0xFF {
		return 0, fmt.Errorf("divider %d for %d Hz: %w", divider, hz, ErrInvalidSpeed)
	}
	return byte(divider), nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.status(ctx, 0x00)
}

func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.status(ctx, subCmdCancelTransfer)
	return err
}

// ReleaseBus cancels the current transfer and frees the bus.
func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.status(ctx, subCmdCancelTransfer)
}

func (d *MCP2221) status(ctx context.Context, subCmd byte) (*MCP2221Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = subCmd
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		8: I2C engine state machine
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	status := &MCP2221Status{
		I2CState:             buffer[8],
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

func (d *MCP2221) openHID() (hidDevice, error) {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	idx := 0
	if len(d.id) > 0 {
		idx = d.id[0]
	} else if len(devs) > 1 {
		return nil, fmt.Errorf("ambiguous device identification")
	}
	if idx < 0 || idx >= len(devs) {
		return nil, fmt.Errorf("no device with id %d", idx)
	}
	dev, err := devs[idx].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

func (d *MCP2221) send(ctx context.Context) error {
	dev, err := d.openDevice()
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			slog.DebugContext(ctx, "could not close adapter", "error", err)
		}
	}()
	verbose := snsctx.IsVerbose(ctx)
	if verbose {
		slog.DebugContext(ctx, "sending message to adapter", "dump", "\n"+hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short write: %d: %w", n, imu.ErrShortTransfer)
	}
	timer := time.NewTimer(d.responseWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short read: %d: %w", n, imu.ErrShortTransfer)
	}
	if verbose {
		slog.DebugContext(ctx, "read message from adapter", "dump", "\n"+hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
