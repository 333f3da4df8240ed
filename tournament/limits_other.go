//go:build !linux

package tournament

import "github.com/rs/zerolog/log"

// CPU pinning and rlimits are Linux facilities. Elsewhere the worker
// runs unconfined; the per-game deadline still applies.
func applyResourceLimits(memoryMB int) {
	log.Debug().Msg("worker resource limits not supported on this platform")
}
