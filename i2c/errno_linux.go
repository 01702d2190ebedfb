package i2c

import "syscall"

var errnoRemoteIO = syscall.EREMOTEIO
