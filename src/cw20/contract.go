package cw20

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/utils/host"
)

const CodeName = "cw20-base"

var (
	TokenInfoPrefix = collections.NewPrefix(0)
	BalancesPrefix  = collections.NewPrefix(1)
)

type TokenInfo struct {
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	TotalSupply math.Int        `json:"total_supply"`
	Mint        *MinterResponse `json:"mint,omitempty"`
}

// Fungible token
type Contract struct {
	TokenInfo collections.Item[TokenInfo]
	Balances  collections.Map[sdk.AccAddress, math.Int]
}

func New(store corestore.KVStoreService) host.Contract {
	sb := collections.NewSchemaBuilder(store)
	self := &Contract{
		TokenInfo: collections.NewItem(sb, TokenInfoPrefix, "token_info", host.JSONValue[TokenInfo]()),
		Balances:  collections.NewMap(sb, BalancesPrefix, "balances", sdk.AccAddressKey, sdk.IntValue),
	}
	_, err := sb.Build()
	if err != nil {
		panic(err)
	}
	return self
}

func (self *Contract) Instantiate(ctx context.Context, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg InstantiateMsg
	err := host.DecodeMsg(raw, &msg)
	if err != nil {
		return nil, err
	}

	err = validateTokenInfo(&msg)
	if err != nil {
		return nil, err
	}

	supply := math.ZeroInt()
	for _, coin := range msg.InitialBalances {
		addr, err := host.ParseAddress(coin.Address)
		if err != nil {
			return nil, err
		}
		if coin.Amount.IsNil() || coin.Amount.IsNegative() {
			return nil, errorsmod.Wrapf(ErrInvalidMsg, "initial balance of %s", coin.Address)
		}
		err = self.add(ctx, addr, coin.Amount)
		if err != nil {
			return nil, err
		}
		supply = supply.Add(coin.Amount)
	}

	if msg.Mint != nil {
		_, err = host.ParseAddress(msg.Mint.Minter)
		if err != nil {
			return nil, err
		}
		if msg.Mint.Cap != nil && supply.GT(*msg.Mint.Cap) {
			return nil, errorsmod.Wrap(ErrCannotExceedCap, "initial supply greater than cap")
		}
	}

	err = self.TokenInfo.Set(ctx, TokenInfo{
		Name:        msg.Name,
		Symbol:      msg.Symbol,
		Decimals:    msg.Decimals,
		TotalSupply: supply,
		Mint:        msg.Mint,
	})
	if err != nil {
		return nil, err
	}

	return host.NewResponse(), nil
}

func (self *Contract) Execute(ctx context.Context, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg ExecuteMsg
	err := host.DecodeMsg(raw, &msg)
	if err != nil {
		return nil, err
	}

	switch {
	case msg.Transfer != nil:
		return self.transfer(ctx, info, msg.Transfer)
	case msg.Send != nil:
		return self.send(ctx, info, msg.Send)
	case msg.Mint != nil:
		return self.mint(ctx, info, msg.Mint)
	case msg.Burn != nil:
		return self.burn(ctx, info, msg.Burn)
	}
	return nil, errorsmod.Wrap(ErrInvalidMsg, "unknown execute message")
}

func (self *Contract) transfer(ctx context.Context, info host.MessageInfo, msg *TransferMsg) (*host.Response, error) {
	recipient, err := host.ParseAddress(msg.Recipient)
	if err != nil {
		return nil, err
	}

	err = self.move(ctx, info.Sender, recipient, msg.Amount)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "transfer").
		AddAttribute("from", info.Sender.String()).
		AddAttribute("to", recipient.String()).
		AddAttribute("amount", msg.Amount.String()), nil
}

func (self *Contract) send(ctx context.Context, info host.MessageInfo, msg *SendMsg) (*host.Response, error) {
	contract, err := host.ParseAddress(msg.Contract)
	if err != nil {
		return nil, err
	}

	err = self.move(ctx, info.Sender, contract, msg.Amount)
	if err != nil {
		return nil, err
	}

	notification, err := host.NewExecuteMsg(contract, ReceiverExecuteMsg{
		Receive: &ReceiveMsg{
			Sender: info.Sender.String(),
			Amount: msg.Amount,
			Msg:    msg.Msg,
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "send").
		AddAttribute("from", info.Sender.String()).
		AddAttribute("to", contract.String()).
		AddAttribute("amount", msg.Amount.String()).
		AddMessage(notification), nil
}

func (self *Contract) mint(ctx context.Context, info host.MessageInfo, msg *MintMsg) (*host.Response, error) {
	if !isPositive(msg.Amount) {
		return nil, ErrInvalidZeroAmount
	}

	tokenInfo, err := self.TokenInfo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if tokenInfo.Mint == nil || tokenInfo.Mint.Minter != info.Sender.String() {
		return nil, errorsmod.Wrapf(ErrUnauthorized, "%s is not the minter", info.Sender)
	}

	tokenInfo.TotalSupply = tokenInfo.TotalSupply.Add(msg.Amount)
	if tokenInfo.Mint.Cap != nil && tokenInfo.TotalSupply.GT(*tokenInfo.Mint.Cap) {
		return nil, ErrCannotExceedCap
	}

	recipient, err := host.ParseAddress(msg.Recipient)
	if err != nil {
		return nil, err
	}

	err = self.add(ctx, recipient, msg.Amount)
	if err != nil {
		return nil, err
	}

	err = self.TokenInfo.Set(ctx, tokenInfo)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "mint").
		AddAttribute("to", recipient.String()).
		AddAttribute("amount", msg.Amount.String()), nil
}

func (self *Contract) burn(ctx context.Context, info host.MessageInfo, msg *BurnMsg) (*host.Response, error) {
	if !isPositive(msg.Amount) {
		return nil, ErrInvalidZeroAmount
	}

	err := self.sub(ctx, info.Sender, msg.Amount)
	if err != nil {
		return nil, err
	}

	tokenInfo, err := self.TokenInfo.Get(ctx)
	if err != nil {
		return nil, err
	}
	tokenInfo.TotalSupply = tokenInfo.TotalSupply.Sub(msg.Amount)
	err = self.TokenInfo.Set(ctx, tokenInfo)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "burn").
		AddAttribute("from", info.Sender.String()).
		AddAttribute("amount", msg.Amount.String()), nil
}

func (self *Contract) Query(ctx context.Context, env host.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	err := host.DecodeMsg(raw, &msg)
	if err != nil {
		return nil, err
	}

	switch {
	case msg.Balance != nil:
		addr, err := host.ParseAddress(msg.Balance.Address)
		if err != nil {
			return nil, err
		}
		balance, err := self.balance(ctx, addr)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(BalanceResponse{Balance: balance})
	case msg.TokenInfo != nil:
		tokenInfo, err := self.TokenInfo.Get(ctx)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(TokenInfoResponse{
			Name:        tokenInfo.Name,
			Symbol:      tokenInfo.Symbol,
			Decimals:    tokenInfo.Decimals,
			TotalSupply: tokenInfo.TotalSupply,
		})
	case msg.Minter != nil:
		tokenInfo, err := self.TokenInfo.Get(ctx)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(tokenInfo.Mint)
	}
	return nil, errorsmod.Wrap(ErrInvalidMsg, "unknown query")
}

func (self *Contract) balance(ctx context.Context, addr sdk.AccAddress) (math.Int, error) {
	balance, err := self.Balances.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	}
	return balance, err
}

func (self *Contract) move(ctx context.Context, from, to sdk.AccAddress, amount math.Int) error {
	if !isPositive(amount) {
		return ErrInvalidZeroAmount
	}
	err := self.sub(ctx, from, amount)
	if err != nil {
		return err
	}
	return self.add(ctx, to, amount)
}

func (self *Contract) add(ctx context.Context, addr sdk.AccAddress, amount math.Int) error {
	balance, err := self.balance(ctx, addr)
	if err != nil {
		return err
	}
	return self.Balances.Set(ctx, addr, balance.Add(amount))
}

func (self *Contract) sub(ctx context.Context, addr sdk.AccAddress, amount math.Int) error {
	balance, err := self.balance(ctx, addr)
	if err != nil {
		return err
	}
	if balance.LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientBalance, "%s has %s, needs %s", addr, balance, amount)
	}
	return self.Balances.Set(ctx, addr, balance.Sub(amount))
}

func isPositive(amount math.Int) bool {
	return !amount.IsNil() && amount.IsPositive()
}

func validateTokenInfo(msg *InstantiateMsg) error {
	if len(msg.Name) < 3 || len(msg.Name) > 50 {
		return errorsmod.Wrap(ErrInvalidTokenInfo, "name is not in the expected format (3-50 UTF-8 bytes)")
	}
	if len(msg.Symbol) < 3 || len(msg.Symbol) > 12 {
		return errorsmod.Wrap(ErrInvalidTokenInfo, "ticker symbol is not in expected format [a-zA-Z\\-]{3,12}")
	}
	for _, c := range msg.Symbol {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '-' {
			return errorsmod.Wrap(ErrInvalidTokenInfo, "ticker symbol is not in expected format [a-zA-Z\\-]{3,12}")
		}
	}
	if msg.Decimals > 18 {
		return errorsmod.Wrap(ErrInvalidTokenInfo, "decimals must not exceed 18")
	}
	return nil
}
