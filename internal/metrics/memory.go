package metrics

import "runtime"

// SelfMemory is the collector's own memory footprint, shown next to the host
// figures so users can tell how much the collector itself costs.
type SelfMemory struct {
	HeapInUse uint64 // bytes of live heap objects
	FromOS    uint64 // total bytes obtained from the OS
	GCCycles  uint32
}

// ReadSelfMemory reads the Go runtime memory statistics.
func ReadSelfMemory() SelfMemory {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return SelfMemory{
		HeapInUse: ms.HeapAlloc,
		FromOS:    ms.Sys,
		GCCycles:  ms.NumGC,
	}
}
