package imu

import (
	"context"
	"errors"
	"fmt"
)

type ErrKind int

const (
	// ErrKindBus is any bus failure the adapter could not classify further.
	ErrKindBus ErrKind = iota
	// ErrKindNoAck means the addressed device did not acknowledge.
	ErrKindNoAck
	// ErrKindTimeout means the transfer did not complete in time.
	ErrKindTimeout
	// ErrKindShortTransfer means fewer bytes moved than requested.
	ErrKindShortTransfer
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNoAck:
		return "no acknowledgment"
	case ErrKindTimeout:
		return "bus timeout"
	case ErrKindShortTransfer:
		return "short transfer"
	default:
		return "bus error"
	}
}

var (
	ErrNoAck         = errors.New("device did not acknowledge")
	ErrTimeout       = errors.New("bus timeout")
	ErrShortTransfer = errors.New("short transfer")
)

// TransportError is returned by bus adapters for failed transactions.
type TransportError struct {
	Kind ErrKind
	Op   string
	Addr byte
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("i2c %s %#x: %s", e.Op, e.Addr, e.Kind)
	}
	return fmt.Sprintf("i2c %s %#x: %s: %v", e.Op, e.Addr, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a TransportError against the kind sentinels.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrNoAck:
		return e.Kind == ErrKindNoAck
	case ErrTimeout:
		return e.Kind == ErrKindTimeout
	case ErrShortTransfer:
		return e.Kind == ErrKindShortTransfer
	}
	return false
}

// NewTransportError wraps err for the given operation. Errors that already
// carry a TransportError are returned unchanged. Context deadlines and the
// kind sentinels are classified, everything else becomes ErrKindBus.
func NewTransportError(op string, addr byte, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	kind := ErrKindBus
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		kind = ErrKindTimeout
	case errors.Is(err, ErrNoAck):
		kind = ErrKindNoAck
	case errors.Is(err, ErrShortTransfer):
		kind = ErrKindShortTransfer
	}
	return &TransportError{Kind: kind, Op: op, Addr: addr, Err: err}
}

// ShortTransfer reports a byte count mismatch.
func ShortTransfer(op string, addr byte, expected, got int) error {
	return &TransportError{
		Kind: ErrKindShortTransfer,
		Op:   op,
		Addr: addr,
		Err:  fmt.Errorf("expected %d bytes, got %d", expected, got),
	}
}
