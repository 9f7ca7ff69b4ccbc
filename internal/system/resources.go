package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Budget is how much parallel work a recording may schedule
type Budget struct {
	Workers  int // Goroutines rendering frames
	InFlight int // Frames held in memory at once
}

// maxMemoryShare is the fraction of available RAM frame buffers may use
const maxMemoryShare = 0.25

// RecommendBudget sizes the frame pipeline from physical cores and available
// memory. requested > 0 overrides the worker count.
func RecommendBudget(requested int, frameBytes int) Budget {
	workers := requested
	if workers <= 0 {
		workers = physicalCores()
	}

	inFlight := workers * 4
	if frameBytes > 0 {
		if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
			limit := int(float64(vm.Available) * maxMemoryShare / float64(frameBytes))
			if limit < inFlight {
				inFlight = limit
			}
		}
	}
	return clampBudget(workers, inFlight)
}

func clampBudget(workers, inFlight int) Budget {
	if workers < 1 {
		workers = 1
	}
	if inFlight < workers {
		inFlight = workers
	}
	return Budget{Workers: workers, InFlight: inFlight}
}

func physicalCores() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
