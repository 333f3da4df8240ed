//go:build linux

package tournament

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// applyResourceLimits pins the worker to a single CPU and caps its
// virtual memory. Best effort: a worker that cannot be confined still
// runs, with a warning, rather than failing the round.
func applyResourceLimits(memoryMB int) {
	var available unix.CPUSet
	if err := unix.SchedGetaffinity(0, &available); err == nil && available.Count() > 1 {
		var pinned unix.CPUSet
		for cpu := 0; cpu < 1024; cpu++ {
			if available.IsSet(cpu) {
				pinned.Set(cpu)
				break
			}
		}
		if err := unix.SchedSetaffinity(0, &pinned); err != nil {
			log.Warn().Err(err).Msg("failed to pin worker to a single CPU")
		}
	}

	if memoryMB <= 0 {
		return
	}
	bytes := uint64(memoryMB) * 1024 * 1024
	limit := unix.Rlimit{Cur: bytes, Max: bytes}
	if err := unix.Setrlimit(unix.RLIMIT_AS, &limit); err != nil {
		// Some kernels reject RLIMIT_AS values; the data segment cap is
		// a weaker but workable fallback.
		if err := unix.Setrlimit(unix.RLIMIT_DATA, &limit); err != nil {
			log.Warn().Err(err).Int("memory_mb", memoryMB).Msg("failed to set worker memory limit")
		}
	}
}
