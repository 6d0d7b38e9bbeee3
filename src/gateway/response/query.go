package response

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/minter"
)

type State struct {
	Config minter.Config `json:"config"`
	Height int64         `json:"height"`
}

type Tokens struct {
	Tokens []string `json:"tokens"`
}

type Balance struct {
	Address string    `json:"address"`
	Native  sdk.Coins `json:"native"`
	Token   math.Int  `json:"token"`
}

type Error struct {
	Code      uint32 `json:"code"`
	Codespace string `json:"codespace"`
	Error     string `json:"error"`
}
