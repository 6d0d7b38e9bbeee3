package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Minter struct {
	// Label of the minter instance, used to find it again on persistent backends
	Label string

	// Account that instantiates all contracts. Bech32 address or an account name
	Deployer string

	// Denom accepted by the direct payment path
	NativeDenom string

	// Exact amount of NativeDenom that buys one token
	NativePrice uint64

	// Exact amount of the fungible token that buys one token
	TokenPrice uint64
}

// Fungible token instantiated next to the minter
type Token struct {
	Label    string
	Name     string
	Symbol   string
	Decimals uint8

	// Balances given away at instantiation, address or account name => amount
	InitialBalances map[string]uint64
}

// Collection contract instantiated by the minter
type Collection struct {
	Name   string
	Symbol string
}

func setMinterDefaults() {
	viper.SetDefault("Minter.Label", "minter")
	viper.SetDefault("Minter.Deployer", "deployer")
	viper.SetDefault("Minter.NativeDenom", "uusd")
	viper.SetDefault("Minter.NativePrice", "200")
	viper.SetDefault("Minter.TokenPrice", "1500")
}

func setTokenDefaults() {
	viper.SetDefault("Token.Label", "cw20")
	viper.SetDefault("Token.Name", "cw20-test")
	viper.SetDefault("Token.Symbol", "CWORCH")
	viper.SetDefault("Token.Decimals", "6")
}

func setCollectionDefaults() {
	viper.SetDefault("Collection.Name", "minter-collection")
	viper.SetDefault("Collection.Symbol", "MNFT")
}

func (self *Config) Validate() error {
	if self.Minter.NativePrice == 0 || self.Minter.TokenPrice == 0 {
		return errors.New("minter prices must be positive")
	}
	if self.Minter.NativeDenom == "" {
		return errors.New("minter native denom is empty")
	}
	return nil
}
