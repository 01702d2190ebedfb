package imu

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransportError_Classification(t *testing.T) {
	tests := []struct {
		name     string
		given    error
		expected ErrKind
		sentinel error
	}{
		{"deadline", fmt.Errorf("hid read: %w", context.DeadlineExceeded), ErrKindTimeout, ErrTimeout},
		{"nack", fmt.Errorf("engine state 0x25: %w", ErrNoAck), ErrKindNoAck, ErrNoAck},
		{"short", ErrShortTransfer, ErrKindShortTransfer, ErrShortTransfer},
		{"other", errors.New("remote I/O error"), ErrKindBus, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := NewTransportError("read", 0x68, test.given)
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, test.expected, te.Kind)
			assert.Equal(t, byte(0x68), te.Addr)
			assert.ErrorIs(t, err, test.given)
			if test.sentinel != nil {
				assert.ErrorIs(t, err, test.sentinel)
			}
		})
	}
}

func TestNewTransportError_KeepsExisting(t *testing.T) {
	assert.NoError(t, NewTransportError("write", 0x68, nil))

	orig := ShortTransfer("read", 0x69, 1, 0)
	wrapped := fmt.Errorf("adapter: %w", orig)
	assert.Same(t, wrapped, NewTransportError("tx", 0x68, wrapped))
	assert.ErrorIs(t, wrapped, ErrShortTransfer)
	assert.NotErrorIs(t, wrapped, ErrNoAck)
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{Kind: ErrKindNoAck, Op: "write", Addr: 0x68}
	assert.Equal(t, "i2c write 0x68: no acknowledgment", err.Error())

	err = &TransportError{Kind: ErrKindTimeout, Op: "tx", Addr: 0x69, Err: context.DeadlineExceeded}
	assert.Equal(t, "i2c tx 0x69: bus timeout: context deadline exceeded", err.Error())
}
