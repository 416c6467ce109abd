package cuda

import "fmt"

// DeviceInfo holds information about a CUDA device.
type DeviceInfo struct {
	Index      int
	Name       string
	TotalMemMB int
	SMCount    int
	ComputeMaj int
	ComputeMin int
	MaxThreads int
	WarpSize   int
}

// DeviceCount returns the number of CUDA devices visible to the driver.
func DeviceCount() (int, error) {
	if err := initDriver(); err != nil {
		return 0, err
	}
	if err := check(cuInit(0), "cuInit"); err != nil {
		return 0, err
	}
	var count int32
	if err := check(cuDeviceGetCount(&count), "cuDeviceGetCount"); err != nil {
		return 0, err
	}
	return int(count), nil
}

// QueryDevice returns information about a CUDA device.
func QueryDevice(index int) (*DeviceInfo, error) {
	if err := initDriver(); err != nil {
		return nil, err
	}
	if err := check(cuInit(0), "cuInit"); err != nil {
		return nil, err
	}

	var dev int32
	if err := check(cuDeviceGet(&dev, int32(index)), "cuDeviceGet"); err != nil {
		return nil, err
	}

	info := &DeviceInfo{Index: index}

	nameBuf := make([]byte, 256)
	if err := check(cuDeviceGetName(&nameBuf[0], 256, dev), "cuDeviceGetName"); err != nil {
		return nil, err
	}
	for i, b := range nameBuf {
		if b == 0 {
			info.Name = string(nameBuf[:i])
			break
		}
	}

	var totalMem uint64
	if err := check(cuDeviceTotalMem(&totalMem, dev), "cuDeviceTotalMem"); err != nil {
		return nil, err
	}
	info.TotalMemMB = int(totalMem / (1024 * 1024))

	getAttr := func(attr int32) int {
		var val int32
		cuDeviceGetAttribute(&val, attr, dev)
		return int(val)
	}
	info.SMCount = getAttr(attrMultiprocessorCount)
	info.ComputeMaj = getAttr(attrComputeCapabilityMaj)
	info.ComputeMin = getAttr(attrComputeCapabilityMin)
	info.MaxThreads = getAttr(attrMaxThreadsPerBlock)
	info.WarpSize = getAttr(attrWarpSize)

	return info, nil
}

func (d *DeviceInfo) String() string {
	return fmt.Sprintf("%s (SM %d.%d, %d SMs, %d MB, %d max threads/block)",
		d.Name, d.ComputeMaj, d.ComputeMin, d.SMCount, d.TotalMemMB, d.MaxThreads)
}
