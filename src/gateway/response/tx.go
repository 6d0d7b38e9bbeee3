package response

import (
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/host"
)

type Tx struct {
	ID      string     `json:"tx_id"`
	Height  int64      `json:"height"`
	AppHash string     `json:"app_hash"`
	Events  sdk.Events `json:"events"`

	// Set when the transaction minted a token
	TokenID string `json:"token_id,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Payment string `json:"payment,omitempty"`
}

func TxToResponse(result *host.TxResult) *Tx {
	out := &Tx{
		ID:      result.ID,
		Height:  result.Height,
		AppHash: cmtbytes.HexBytes(result.AppHash).String(),
		Events:  result.Events,
	}

	eventType := host.EventTypeWasmPrefix + minter.EventTypeMinted
	out.TokenID, _ = result.Attribute(eventType, "token_id")
	out.Owner, _ = result.Attribute(eventType, "owner")
	out.Payment, _ = result.Attribute(eventType, "payment")
	return out
}
