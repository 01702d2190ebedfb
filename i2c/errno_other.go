//go:build !linux

package i2c

import "syscall"

// EREMOTEIO only exists on Linux; ENXIO stands in elsewhere.
var errnoRemoteIO = syscall.ENXIO
