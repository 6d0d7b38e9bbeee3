package minter

import (
	errorsmod "cosmossdk.io/errors"
)

const ModuleName = "minter"

var (
	ErrPaymentMismatch      = errorsmod.Register(ModuleName, 2, "payment mismatch")
	ErrUnauthorized         = errorsmod.Register(ModuleName, 3, "unauthorized")
	ErrInvalidConfiguration = errorsmod.Register(ModuleName, 4, "invalid configuration")
	ErrSubcallFailure       = errorsmod.Register(ModuleName, 5, "collection rejected the mint")
	ErrDecode               = errorsmod.Register(ModuleName, 6, "failed to decode message")
	ErrMintPending          = errorsmod.Register(ModuleName, 7, "another mint is pending")
	ErrUnknownReply         = errorsmod.Register(ModuleName, 8, "unknown reply")
	ErrCollectionNotReady   = errorsmod.Register(ModuleName, 9, "collection address not set")
	ErrMintedThisBlock      = errorsmod.Register(ModuleName, 10, "already minted in this block")
)
