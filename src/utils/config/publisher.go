package config

import (
	"github.com/spf13/viper"
)

type Publisher struct {
	// Are mint notifications published to Redis
	Enabled bool

	// Redis channel for mint notifications
	ChannelName string

	// Max notifications waiting for the publisher
	QueueSize int
}

func setPublisherDefaults() {
	viper.SetDefault("Publisher.Enabled", "false")
	viper.SetDefault("Publisher.ChannelName", "minter")
	viper.SetDefault("Publisher.QueueSize", "100")
}
