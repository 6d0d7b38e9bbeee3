package minter

import (
	"bytes"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/warp-contracts/minter/src/cw20"
)

const (
	DefaultNftName   = "minter-collection"
	DefaultNftSymbol = "MNFT"
)

type InstantiateMsg struct {
	NativeDenom string   `json:"native_denom"`
	NativePrice math.Int `json:"native_price"`
	Cw20Address string   `json:"cw20_address"`
	Cw20Price   math.Int `json:"cw20_price"`
	NftCodeID   uint64   `json:"nft_code_id"`

	// Collection metadata, defaults are used when empty
	NftName   string `json:"nft_name,omitempty"`
	NftSymbol string `json:"nft_symbol,omitempty"`
}

type ExecuteMsg struct {
	// Direct payment, funds attached to the call
	Mint *struct{} `json:"mint,omitempty"`

	// Payment notification sent by the cw20 contract
	Receive *cw20.ReceiveMsg `json:"receive,omitempty"`

	// Always rejected, configuration is immutable
	UpdateConfig *Config `json:"update_config,omitempty"`
}

// Top level keys of ExecuteMsg
const (
	ExecuteMint         = "mint"
	ExecuteReceive      = "receive"
	ExecuteUpdateConfig = "update_config"
)

type QueryMsg struct {
	State        *struct{} `json:"state,omitempty"`
	ContractInfo *struct{} `json:"contract_info,omitempty"`
}

type MigrateMsg struct{}

// Payload of the notification
func MintPayload() []byte {
	return []byte(`{"mint":{}}`)
}

func decode(raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	err := dec.Decode(out)
	if err != nil {
		return errorsmod.Wrap(ErrDecode, err.Error())
	}
	return nil
}

// Splits {"<variant>":<body>} without looking into the body.
// Exactly one key with a JSON object value is accepted.
func decodeVariant(raw []byte) (variant string, body json.RawMessage, err error) {
	var msg map[string]json.RawMessage
	err = json.Unmarshal(raw, &msg)
	if err != nil {
		return "", nil, errorsmod.Wrap(ErrDecode, err.Error())
	}
	if len(msg) != 1 {
		return "", nil, errorsmod.Wrapf(ErrDecode, "expected one message, got %d", len(msg))
	}
	for k, v := range msg {
		variant, body = k, v
	}
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		return "", nil, errorsmod.Wrapf(ErrDecode, "%s: body is not an object", variant)
	}
	return
}
