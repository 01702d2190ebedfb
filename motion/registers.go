package motion

// MPU9150 register map (accel/gyro die, same layout as the MPU6050).
// See: RM-MPU-9150A-00, register map and descriptions.
const (
	RegSampleRateDiv byte = 0x19
	RegConfig        byte = 0x1A
	RegGyroConfig    byte = 0x1B
	RegAccelConfig   byte = 0x1C

	RegAccelXOutH byte = 0x3B
	RegAccelXOutL byte = 0x3C
	RegAccelYOutH byte = 0x3D
	RegAccelYOutL byte = 0x3E
	RegAccelZOutH byte = 0x3F
	RegAccelZOutL byte = 0x40

	RegTempOutH byte = 0x41
	RegTempOutL byte = 0x42

	RegGyroXOutH byte = 0x43
	RegGyroXOutL byte = 0x44
	RegGyroYOutH byte = 0x45
	RegGyroYOutL byte = 0x46
	RegGyroZOutH byte = 0x47
	RegGyroZOutL byte = 0x48

	RegPwrMgmt1 byte = 0x6B
	RegPwrMgmt2 byte = 0x6C
	RegWhoAmI   byte = 0x75
)

// WhoAmIValue is the fixed content of RegWhoAmI regardless of AD0 wiring.
const WhoAmIValue = 0x68
