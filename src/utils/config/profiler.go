package config

import (
	"github.com/spf13/viper"
)

// Runtime profiling exposed by the gateway under /debug/pprof
type Profiler struct {
	Enabled bool

	// Passed to runtime.SetBlockProfileRate, nanoseconds
	BlockProfileRate int

	// Passed to runtime.SetMutexProfileFraction, 0 disables
	MutexProfileFraction int
}

func setProfilerDefaults() {
	viper.SetDefault("Profiler.Enabled", "false")
	viper.SetDefault("Profiler.BlockProfileRate", "50")
	viper.SetDefault("Profiler.MutexProfileFraction", "0")
}
