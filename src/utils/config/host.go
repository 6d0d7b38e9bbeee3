package config

import (
	"github.com/spf13/viper"
)

type Host struct {
	// Chain id put into every block header
	ChainID string

	// Backend of the state database: memdb or goleveldb
	DBBackend string

	// Directory of the state database, unused with memdb
	DBDir string

	// Name of the state database
	DBName string
}

func setHostDefaults() {
	viper.SetDefault("Host.ChainID", "minter-1")
	viper.SetDefault("Host.DBBackend", "memdb")
	viper.SetDefault("Host.DBDir", "data")
	viper.SetDefault("Host.DBName", "state")
}
