package host

import (
	"context"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

var BalancesPrefix = collections.NewPrefix(0)

// Native coin balances
type Bank struct {
	Schema   collections.Schema
	Balances collections.Map[collections.Pair[sdk.AccAddress, string], math.Int]
}

func NewBank(storeService corestore.KVStoreService) (self *Bank, err error) {
	self = new(Bank)

	sb := collections.NewSchemaBuilder(storeService)
	self.Balances = collections.NewMap(sb, BalancesPrefix, "balances",
		collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey),
		sdk.IntValue,
	)

	self.Schema, err = sb.Build()
	if err != nil {
		return nil, err
	}
	return
}

func (self *Bank) Balance(ctx context.Context, addr sdk.AccAddress, denom string) (math.Int, error) {
	amount, err := self.Balances.Get(ctx, collections.Join(addr, denom))
	if errorsmod.IsOf(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	}
	return amount, err
}

func (self *Bank) AllBalances(ctx context.Context, addr sdk.AccAddress) (out sdk.Coins, err error) {
	iter, err := self.Balances.Iterate(ctx, collections.NewPrefixedPairRange[sdk.AccAddress, string](addr))
	if err != nil {
		return
	}
	kvs, err := iter.KeyValues()
	if err != nil {
		return
	}
	for _, kv := range kvs {
		out = append(out, sdk.NewCoin(kv.Key.K2(), kv.Value))
	}
	return out.Sort(), nil
}

// Creates coins out of thin air, used to fund accounts
func (self *Bank) Mint(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	err := coins.Validate()
	if err != nil {
		return errorsmod.Wrap(ErrInvalidFunds, err.Error())
	}
	for _, coin := range coins {
		err = self.add(ctx, addr, coin)
		if err != nil {
			return err
		}
	}
	return nil
}

func (self *Bank) Send(ctx context.Context, from, to sdk.AccAddress, coins sdk.Coins) error {
	err := coins.Validate()
	if err != nil {
		return errorsmod.Wrap(ErrInvalidFunds, err.Error())
	}

	for _, coin := range coins {
		balance, err := self.Balance(ctx, from, coin.Denom)
		if err != nil {
			return err
		}
		if balance.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s%s is smaller than %s", balance, coin.Denom, coin)
		}

		err = self.set(ctx, from, coin.Denom, balance.Sub(coin.Amount))
		if err != nil {
			return err
		}

		err = self.add(ctx, to, coin)
		if err != nil {
			return err
		}
	}
	return nil
}

func (self *Bank) add(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) error {
	balance, err := self.Balance(ctx, addr, coin.Denom)
	if err != nil {
		return err
	}
	return self.set(ctx, addr, coin.Denom, balance.Add(coin.Amount))
}

func (self *Bank) set(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	key := collections.Join(addr, denom)
	if amount.IsZero() {
		return self.Balances.Remove(ctx, key)
	}
	return self.Balances.Set(ctx, key, amount)
}
