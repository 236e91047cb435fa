//go:build !linux

package quality

func totalMemory() uint64 {
	return 0
}
