package host

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

// Resolves a bech32 address or derives a deterministic address from an account name
func AccountAddress(s string) sdk.AccAddress {
	s = strings.TrimSpace(s)
	addr, err := sdk.AccAddressFromBech32(s)
	if err == nil {
		return addr
	}
	return sdk.AccAddress(address.Module(s))
}

// Parses an address passed by a contract or a user. Names aren't accepted here
func ParseAddress(s string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(s)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidAddress, "%s: %s", s, err)
	}
	return addr, nil
}

func contractAddress(codeID, instanceID uint64) sdk.AccAddress {
	return sdk.AccAddress(address.Module(StoreKeyWasm, sdk.Uint64ToBigEndian(codeID), sdk.Uint64ToBigEndian(instanceID)))
}
