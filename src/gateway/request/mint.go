package request

import (
	"encoding/json"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Mint paid with native coins
type Mint struct {
	// Bech32 address or account name
	Sender string    `json:"sender" binding:"required"`
	Funds  sdk.Coins `json:"funds"`
}

// Token transfer to a contract, by default a mint paid with the token
type Send struct {
	Sender string   `json:"sender" binding:"required"`
	Amount math.Int `json:"amount"`

	// Defaults to the minter
	Contract string `json:"contract,omitempty"`

	// Defaults to the mint payload
	Msg json.RawMessage `json:"msg,omitempty"`
}

// Native coins given away in development mode
type Faucet struct {
	Address string `json:"address" binding:"required"`
	Denom   string `json:"denom,omitempty"`
}
