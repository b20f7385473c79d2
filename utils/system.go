package utils

import (
	"log/slog"
	"strconv"

	"github.com/shirou/gopsutil/v3/cpu"
)

// GetOptimalWorkerCount determines the number of artist workers based on
// config and system resources. Each worker drives its own browser page.
func GetOptimalWorkerCount(configValue string) int {
	// 1. Check for manual override
	if manualWorkers, err := strconv.Atoi(configValue); err == nil && manualWorkers > 0 {
		slog.Debug("using configured number of workers", "workers", manualWorkers)
		return manualWorkers
	}

	// 2. If set to "auto" or invalid, calculate automatically
	if configValue != "auto" {
		slog.Warn("invalid workers value, defaulting to auto", "value", configValue)
	}

	cpuCores, err := cpu.Counts(true)
	if err != nil {
		slog.Warn("could not detect CPU cores, falling back to 2 workers", "err", err)
		return 2
	}

	// Half of the logical cores; every page is a renderer process.
	optimalCount := cpuCores / 2

	if optimalCount < 1 {
		optimalCount = 1
	}
	if optimalCount > 8 {
		optimalCount = 8
	}

	slog.Info("automatically sized worker pool", "cores", cpuCores, "workers", optimalCount)
	return optimalCount
}
