package minter

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/warp-contracts/minter/src/utils/host"
)

// Only the stored version changes, configuration is kept as is
func (self *Contract) Migrate(ctx context.Context, env host.Env, raw []byte) (*host.Response, error) {
	var msg MigrateMsg
	err := decode(raw, &msg)
	if err != nil {
		return nil, err
	}

	previous, err := self.version.Get(ctx)
	if err != nil {
		return nil, err
	}
	if previous.Contract != ContractName {
		return nil, errorsmod.Wrapf(ErrUnauthorized, "cannot migrate from %s", previous.Contract)
	}

	err = self.version.Set(ctx, VersionInfo{Contract: ContractName, Version: Version})
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "migrate").
		AddAttribute("from_version", previous.Version).
		AddAttribute("to_version", Version), nil
}
