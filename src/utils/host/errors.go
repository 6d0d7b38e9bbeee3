package host

import (
	errorsmod "cosmossdk.io/errors"
)

const ModuleName = "host"

var (
	ErrUnknownCode     = errorsmod.Register(ModuleName, 2, "unknown code id")
	ErrUnknownContract = errorsmod.Register(ModuleName, 3, "contract not found")
	ErrInvalidMsg      = errorsmod.Register(ModuleName, 4, "invalid message")
	ErrContractPanic   = errorsmod.Register(ModuleName, 5, "contract panicked")
	ErrNotMigratable   = errorsmod.Register(ModuleName, 6, "contract has no migrate entry point")
	ErrNoReply         = errorsmod.Register(ModuleName, 7, "contract has no reply entry point")
	ErrDuplicateLabel  = errorsmod.Register(ModuleName, 8, "label already used")
	ErrInvalidAddress  = errorsmod.Register(ModuleName, 9, "invalid address")
	ErrUnauthorized    = errorsmod.Register(ModuleName, 10, "unauthorized")
	ErrInvalidFunds    = errorsmod.Register(ModuleName, 11, "invalid funds")
)
