package cost

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// CPUFeatures contains detected CPU vector capabilities
type CPUFeatures struct {
	Vendor    string
	HasSSE41  bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool
}

// HasVectorUnit reports whether any supported vector extension is present.
func (f CPUFeatures) HasVectorUnit() bool {
	return f.HasSSE41 || f.HasAVX2 || f.HasAVX512 || f.HasNEON
}

var (
	detectOnce sync.Once
	features   CPUFeatures
)

func detectCPU() {
	features = CPUFeatures{
		Vendor:    cpuid.CPU.VendorString,
		HasSSE41:  cpuid.CPU.Supports(cpuid.SSE4),
		HasAVX2:   cpuid.CPU.Supports(cpuid.AVX2),
		HasAVX512: cpuid.CPU.Supports(cpuid.AVX512F),
		HasNEON:   cpuid.CPU.Supports(cpuid.ASIMD),
	}
}

// GetCPUFeatures returns the detected CPU vector capabilities
func GetCPUFeatures() CPUFeatures {
	detectOnce.Do(detectCPU)
	return features
}

// autoBackend picks the backend used for Config.Backend == "auto".
func autoBackend() string {
	if GetCPUFeatures().HasVectorUnit() {
		return BackendBatch
	}
	return BackendScalar
}
