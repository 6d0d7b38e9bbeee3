package minter

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/utils/host"
)

type Config struct {
	NativeDenom string   `json:"native_denom"`
	NativePrice math.Int `json:"native_price"`
	Cw20Address string   `json:"cw20_address"`
	Cw20Price   math.Int `json:"cw20_price"`
	NftCodeID   uint64   `json:"nft_code_id"`
	NftAddress  string   `json:"nft_address,omitempty"`
}

// Recipient of the mint dispatched in the current transaction
type PendingMint struct {
	Recipient string `json:"recipient"`
	TokenID   string `json:"token_id"`
	Payment   string `json:"payment"`
}

type VersionInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

func (self *InstantiateMsg) toConfig() (config Config, err error) {
	if self.NativePrice.IsNil() || !self.NativePrice.IsPositive() {
		err = errorsmod.Wrap(ErrInvalidConfiguration, "native price must be positive")
		return
	}
	if self.Cw20Price.IsNil() || !self.Cw20Price.IsPositive() {
		err = errorsmod.Wrap(ErrInvalidConfiguration, "cw20 price must be positive")
		return
	}
	err = sdk.ValidateDenom(self.NativeDenom)
	if err != nil {
		err = errorsmod.Wrap(ErrInvalidConfiguration, err.Error())
		return
	}
	_, err = host.ParseAddress(self.Cw20Address)
	if err != nil {
		err = errorsmod.Wrap(ErrInvalidConfiguration, err.Error())
		return
	}
	if self.NftCodeID == 0 {
		err = errorsmod.Wrap(ErrInvalidConfiguration, "nft code id not set")
		return
	}

	config = Config{
		NativeDenom: self.NativeDenom,
		NativePrice: self.NativePrice,
		Cw20Address: self.Cw20Address,
		Cw20Price:   self.Cw20Price,
		NftCodeID:   self.NftCodeID,
	}
	return
}

func (self *Contract) loadConfig(ctx context.Context) (Config, error) {
	return self.config.Get(ctx)
}

func (self *Contract) initConfig(ctx context.Context, config Config) error {
	exists, err := self.config.Has(ctx)
	if err != nil {
		return err
	}
	if exists {
		return errorsmod.Wrap(ErrUnauthorized, "configuration already initialized")
	}
	return self.config.Set(ctx, config)
}

// The only change allowed after instantiation. Setting the same address again is a no-op.
func (self *Contract) setCollection(ctx context.Context, addr sdk.AccAddress) error {
	config, err := self.config.Get(ctx)
	if err != nil {
		return err
	}

	switch config.NftAddress {
	case "":
		config.NftAddress = addr.String()
		return self.config.Set(ctx, config)
	case addr.String():
		return nil
	}
	return errorsmod.Wrapf(ErrUnauthorized, "collection already set to %s, got %s", config.NftAddress, addr)
}

func (self *Contract) pendingMint(ctx context.Context) (PendingMint, error) {
	pending, err := self.pending.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return pending, errorsmod.Wrap(ErrUnknownReply, "no pending mint")
	}
	return pending, err
}
