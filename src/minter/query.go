package minter

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/warp-contracts/minter/src/utils/host"
)

func (self *Contract) Query(ctx context.Context, env host.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	err := decode(raw, &msg)
	if err != nil {
		return nil, err
	}

	switch {
	case msg.State != nil:
		config, err := self.loadConfig(ctx)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(config)
	case msg.ContractInfo != nil:
		version, err := self.version.Get(ctx)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(version)
	}
	return nil, errorsmod.Wrap(ErrDecode, "unknown query")
}
