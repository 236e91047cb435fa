package quality

import "runtime"

// Capabilities describes the host, supplied at construction
type Capabilities struct {
	LowPower        bool
	EstimatedMemory uint64 // Bytes, zero if unknown
	CoreCount       uint32
}

const (
	lowMemory    = 1_000_000_000
	mediumMemory = 2_000_000_000
)

// InitialTier classifies host capabilities
// Unknown memory counts as low
func InitialTier(c Capabilities) Tier {
	switch {
	case c.LowPower || c.EstimatedMemory < lowMemory || c.CoreCount <= 2:
		return Low
	case c.EstimatedMemory < mediumMemory || c.CoreCount <= 4:
		return Medium
	default:
		return High
	}
}

// DetectCapabilities inspects the running host
func DetectCapabilities() Capabilities {
	cores := runtime.NumCPU()
	if cores < 0 {
		cores = 0
	}
	return Capabilities{
		LowPower:        false,
		EstimatedMemory: totalMemory(),
		CoreCount:       uint32(cores),
	}
}
