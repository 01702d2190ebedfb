package i2c

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/imu"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		given    error
		expected imu.ErrKind
	}{
		{fmt.Errorf("sysfs-i2c: %w", syscall.ENXIO), imu.ErrKindNoAck},
		{fmt.Errorf("sysfs-i2c: %w", errnoRemoteIO), imu.ErrKindNoAck},
		{fmt.Errorf("sysfs-i2c: %w", syscall.ETIMEDOUT), imu.ErrKindTimeout},
		{errors.New("bus closed"), imu.ErrKindBus},
	}
	for _, test := range tests {
		t.Run(test.given.Error(), func(t *testing.T) {
			err := classify("tx", 0x68, test.given)
			var te *imu.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, test.expected, te.Kind)
			assert.Equal(t, "tx", te.Op)
		})
	}
}

func TestOp(t *testing.T) {
	assert.Equal(t, "write", op([]byte{0x6B, 0x00}, nil))
	assert.Equal(t, "read", op(nil, []byte{0x00}))
	assert.Equal(t, "tx", op([]byte{0x75}, []byte{0x00}))
}
