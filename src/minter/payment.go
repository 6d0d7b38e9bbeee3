package minter

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/cw20"
	"github.com/warp-contracts/minter/src/utils/host"
)

const (
	PaymentNative = "native"
	PaymentCw20   = "cw20"
)

// Funds attached to the call must be exactly the native price, nothing more
func verifyFunds(config *Config, funds sdk.Coins) error {
	if len(funds) != 1 {
		return errorsmod.Wrapf(ErrPaymentMismatch, "expected %s%s, got %d coins", config.NativePrice, config.NativeDenom, len(funds))
	}

	coin := funds[0]
	if coin.Denom != config.NativeDenom {
		return errorsmod.Wrapf(ErrPaymentMismatch, "expected denom %s, got %s", config.NativeDenom, coin.Denom)
	}
	if !equal(coin.Amount, config.NativePrice) {
		return errorsmod.Wrapf(ErrPaymentMismatch, "expected %s%s, got %s", config.NativePrice, config.NativeDenom, coin)
	}
	return nil
}

// Returns the account that paid with the fungible token.
// Only the token contract may notify, nothing of the body is read before that's checked.
func verifyNotification(config *Config, info host.MessageInfo, body json.RawMessage) (recipient sdk.AccAddress, err error) {
	if info.Sender.String() != config.Cw20Address {
		err = errorsmod.Wrapf(ErrUnauthorized, "notification from %s, expected %s", info.Sender, config.Cw20Address)
		return
	}

	var msg cw20.ReceiveMsg
	err = decode(body, &msg)
	if err != nil {
		return
	}

	if !equal(msg.Amount, config.Cw20Price) {
		err = errorsmod.Wrapf(ErrPaymentMismatch, "expected %s tokens, got %s", config.Cw20Price, msg.Amount)
		return
	}

	variant, payload, err := decodeVariant(msg.Msg)
	if err != nil {
		return
	}
	if variant != ExecuteMint {
		err = errorsmod.Wrapf(ErrDecode, "payload is %s, not a mint request", variant)
		return
	}
	err = decode(payload, &struct{}{})
	if err != nil {
		return
	}

	recipient, err = host.ParseAddress(msg.Sender)
	if err != nil {
		err = errorsmod.Wrap(ErrDecode, err.Error())
	}
	return
}

func equal(a, b math.Int) bool {
	if a.IsNil() || b.IsNil() {
		return false
	}
	return a.Equal(b)
}
