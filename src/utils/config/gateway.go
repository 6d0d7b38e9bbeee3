package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// REST API address
	RESTListenAddress string

	// How long the state query result is cached. Cache is flushed on every commit anyway
	StateCacheTTL time.Duration

	// Max execute requests per second, 0 disables the limit
	ExecuteRateLimit float64

	// Burst of execute requests
	ExecuteBurst int

	// Funds given by the faucet endpoint, only in development mode
	FaucetAmount uint64
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.RESTListenAddress", "0.0.0.0:4000")
	viper.SetDefault("Gateway.StateCacheTTL", "30s")
	viper.SetDefault("Gateway.ExecuteRateLimit", "50")
	viper.SetDefault("Gateway.ExecuteBurst", "10")
	viper.SetDefault("Gateway.FaucetAmount", "1000")
}
