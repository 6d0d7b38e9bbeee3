package cw721

import (
	errorsmod "cosmossdk.io/errors"
)

const ModuleName = "cw721"

var (
	ErrInvalidMsg    = errorsmod.Register(ModuleName, 2, "invalid message")
	ErrUnauthorized  = errorsmod.Register(ModuleName, 3, "unauthorized")
	ErrClaimed       = errorsmod.Register(ModuleName, 4, "token_id already claimed")
	ErrTokenNotFound = errorsmod.Register(ModuleName, 5, "token not found")
)
