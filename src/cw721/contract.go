package cw721

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/utils/host"
)

const (
	CodeName = "cw721-base"

	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	ContractInfoPrefix = collections.NewPrefix(0)
	MinterPrefix       = collections.NewPrefix(1)
	TokenCountPrefix   = collections.NewPrefix(2)
	TokensPrefix       = collections.NewPrefix(3)
	OwnersPrefix       = collections.NewPrefix(4)
)

type TokenInfo struct {
	Owner    string `json:"owner"`
	TokenURI string `json:"token_uri,omitempty"`
}

// Non-fungible token collection
type Contract struct {
	ContractInfo collections.Item[ContractInfoResponse]
	Minter       collections.Item[string]
	TokenCount   collections.Item[uint64]
	Tokens       collections.Map[string, TokenInfo]

	// Owner => token id index
	Owners collections.KeySet[collections.Pair[sdk.AccAddress, string]]
}

func New(store corestore.KVStoreService) host.Contract {
	sb := collections.NewSchemaBuilder(store)
	self := &Contract{
		ContractInfo: collections.NewItem(sb, ContractInfoPrefix, "contract_info", host.JSONValue[ContractInfoResponse]()),
		Minter:       collections.NewItem(sb, MinterPrefix, "minter", collections.StringValue),
		TokenCount:   collections.NewItem(sb, TokenCountPrefix, "num_tokens", collections.Uint64Value),
		Tokens:       collections.NewMap(sb, TokensPrefix, "tokens", collections.StringKey, host.JSONValue[TokenInfo]()),
		Owners:       collections.NewKeySet(sb, OwnersPrefix, "owners", collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey)),
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

	minter, err := host.ParseAddress(msg.Minter)
	if err != nil {
		return nil, err
	}

	err = self.ContractInfo.Set(ctx, ContractInfoResponse{Name: msg.Name, Symbol: msg.Symbol})
	if err != nil {
		return nil, err
	}
	err = self.Minter.Set(ctx, minter.String())
	if err != nil {
		return nil, err
	}
	err = self.TokenCount.Set(ctx, 0)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("minter", minter.String()), nil
}

func (self *Contract) Execute(ctx context.Context, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg ExecuteMsg
	err := host.DecodeMsg(raw, &msg)
	if err != nil {
		return nil, err
	}

	switch {
	case msg.Mint != nil:
		return self.mint(ctx, info, msg.Mint)
	case msg.TransferNft != nil:
		return self.transferNft(ctx, info, msg.TransferNft)
	}
	return nil, errorsmod.Wrap(ErrInvalidMsg, "unknown execute message")
}

func (self *Contract) mint(ctx context.Context, info host.MessageInfo, msg *MintMsg) (*host.Response, error) {
	minter, err := self.Minter.Get(ctx)
	if err != nil {
		return nil, err
	}
	if info.Sender.String() != minter {
		return nil, errorsmod.Wrapf(ErrUnauthorized, "%s is not the minter", info.Sender)
	}

	if msg.TokenID == "" {
		return nil, errorsmod.Wrap(ErrInvalidMsg, "empty token id")
	}
	owner, err := host.ParseAddress(msg.Owner)
	if err != nil {
		return nil, err
	}

	claimed, err := self.Tokens.Has(ctx, msg.TokenID)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, errorsmod.Wrapf(ErrClaimed, "%s", msg.TokenID)
	}

	err = self.Tokens.Set(ctx, msg.TokenID, TokenInfo{Owner: owner.String(), TokenURI: msg.TokenURI})
	if err != nil {
		return nil, err
	}
	err = self.Owners.Set(ctx, collections.Join(owner, msg.TokenID))
	if err != nil {
		return nil, err
	}

	count, err := self.TokenCount.Get(ctx)
	if err != nil {
		return nil, err
	}
	err = self.TokenCount.Set(ctx, count+1)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "mint").
		AddAttribute("minter", info.Sender.String()).
		AddAttribute("owner", owner.String()).
		AddAttribute("token_id", msg.TokenID), nil
}

func (self *Contract) transferNft(ctx context.Context, info host.MessageInfo, msg *TransferNftMsg) (*host.Response, error) {
	token, err := self.token(ctx, msg.TokenID)
	if err != nil {
		return nil, err
	}
	if token.Owner != info.Sender.String() {
		return nil, errorsmod.Wrapf(ErrUnauthorized, "%s does not own %s", info.Sender, msg.TokenID)
	}

	recipient, err := host.ParseAddress(msg.Recipient)
	if err != nil {
		return nil, err
	}

	err = self.Owners.Remove(ctx, collections.Join(info.Sender, msg.TokenID))
	if err != nil {
		return nil, err
	}
	err = self.Owners.Set(ctx, collections.Join(recipient, msg.TokenID))
	if err != nil {
		return nil, err
	}

	token.Owner = recipient.String()
	err = self.Tokens.Set(ctx, msg.TokenID, token)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "transfer_nft").
		AddAttribute("sender", info.Sender.String()).
		AddAttribute("recipient", recipient.String()).
		AddAttribute("token_id", msg.TokenID), nil
}

func (self *Contract) Query(ctx context.Context, env host.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	err := host.DecodeMsg(raw, &msg)
	if err != nil {
		return nil, err
	}

	switch {
	case msg.NumTokens != nil:
		count, err := self.TokenCount.Get(ctx)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(NumTokensResponse{Count: count})
	case msg.AllTokens != nil:
		tokens, err := self.allTokens(ctx, msg.AllTokens.StartAfter, msg.AllTokens.Limit)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(TokensResponse{Tokens: tokens})
	case msg.Tokens != nil:
		owner, err := host.ParseAddress(msg.Tokens.Owner)
		if err != nil {
			return nil, err
		}
		tokens, err := self.tokensOf(ctx, owner, msg.Tokens.StartAfter, msg.Tokens.Limit)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(TokensResponse{Tokens: tokens})
	case msg.OwnerOf != nil:
		token, err := self.token(ctx, msg.OwnerOf.TokenID)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(OwnerOfResponse{Owner: token.Owner})
	case msg.NftInfo != nil:
		token, err := self.token(ctx, msg.NftInfo.TokenID)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(NftInfoResponse{TokenURI: token.TokenURI})
	case msg.Minter != nil:
		minter, err := self.Minter.Get(ctx)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(MinterResponse{Minter: minter})
	case msg.ContractInfo != nil:
		info, err := self.ContractInfo.Get(ctx)
		if err != nil {
			return nil, err
		}
		return host.EncodeResponse(info)
	}
	return nil, errorsmod.Wrap(ErrInvalidMsg, "unknown query")
}

func (self *Contract) token(ctx context.Context, id string) (TokenInfo, error) {
	token, err := self.Tokens.Get(ctx, id)
	if errors.Is(err, collections.ErrNotFound) {
		return token, errorsmod.Wrapf(ErrTokenNotFound, "%s", id)
	}
	return token, err
}

func (self *Contract) allTokens(ctx context.Context, startAfter string, limit uint32) (out []string, err error) {
	rng := new(collections.Range[string])
	if startAfter != "" {
		rng = rng.StartExclusive(startAfter)
	}

	iter, err := self.Tokens.Iterate(ctx, rng)
	if err != nil {
		return
	}
	defer iter.Close()

	out = []string{}
	for n := pageSize(limit); iter.Valid() && len(out) < n; iter.Next() {
		var id string
		id, err = iter.Key()
		if err != nil {
			return
		}
		out = append(out, id)
	}
	return
}

func (self *Contract) tokensOf(ctx context.Context, owner sdk.AccAddress, startAfter string, limit uint32) (out []string, err error) {
	rng := collections.NewPrefixedPairRange[sdk.AccAddress, string](owner)
	if startAfter != "" {
		rng = rng.StartExclusive(startAfter)
	}

	iter, err := self.Owners.Iterate(ctx, rng)
	if err != nil {
		return
	}
	defer iter.Close()

	out = []string{}
	for n := pageSize(limit); iter.Valid() && len(out) < n; iter.Next() {
		var key collections.Pair[sdk.AccAddress, string]
		key, err = iter.Key()
		if err != nil {
			return
		}
		out = append(out, key.K2())
	}
	return
}

func pageSize(limit uint32) int {
	if limit == 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return int(limit)
}
