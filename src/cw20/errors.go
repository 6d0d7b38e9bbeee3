package cw20

import (
	errorsmod "cosmossdk.io/errors"
)

const ModuleName = "cw20"

var (
	ErrInvalidMsg          = errorsmod.Register(ModuleName, 2, "invalid message")
	ErrUnauthorized        = errorsmod.Register(ModuleName, 3, "unauthorized")
	ErrInvalidZeroAmount   = errorsmod.Register(ModuleName, 4, "invalid zero amount")
	ErrInsufficientBalance = errorsmod.Register(ModuleName, 5, "insufficient balance")
	ErrCannotExceedCap     = errorsmod.Register(ModuleName, 6, "minting cannot exceed the cap")
	ErrInvalidTokenInfo    = errorsmod.Register(ModuleName, 7, "invalid token info")
)
