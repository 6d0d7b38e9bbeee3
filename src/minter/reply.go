package minter

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/utils/host"
)

const (
	InstantiateReplyID uint64 = 1
	MintReplyID        uint64 = 2

	EventTypeMinted = "minted"
)

func (self *Contract) Reply(ctx context.Context, env host.Env, reply host.Reply) (*host.Response, error) {
	switch reply.ID {
	case InstantiateReplyID:
		return self.replyInstantiate(ctx, reply)
	case MintReplyID:
		return self.replyMint(ctx, reply)
	}
	return nil, errorsmod.Wrapf(ErrUnknownReply, "id %d", reply.ID)
}

func (self *Contract) replyInstantiate(ctx context.Context, reply host.Reply) (*host.Response, error) {
	if !reply.Result.IsOk() {
		return nil, errorsmod.Wrap(ErrSubcallFailure, reply.Result.Err)
	}

	addr, err := instantiatedAddress(reply.Result.Ok)
	if err != nil {
		return nil, err
	}

	err = self.setCollection(ctx, addr)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "collection_instantiated").
		AddAttribute("nft_address", addr.String()), nil
}

func (self *Contract) replyMint(ctx context.Context, reply host.Reply) (*host.Response, error) {
	pending, err := self.pendingMint(ctx)
	if err != nil {
		return nil, err
	}

	// Cleared on every path
	err = self.pending.Remove(ctx)
	if err != nil {
		return nil, err
	}

	if !reply.Result.IsOk() {
		return nil, errorsmod.Wrap(ErrSubcallFailure, reply.Result.Err)
	}

	collection, ok := reply.Result.Ok.Attribute(host.EventTypeExecute, host.AttributeKeyContractAddr)
	if !ok {
		return nil, errorsmod.Wrap(ErrSubcallFailure, "collection address missing in the mint result")
	}
	addr, err := host.ParseAddress(collection)
	if err != nil {
		return nil, errorsmod.Wrap(ErrSubcallFailure, err.Error())
	}
	err = self.setCollection(ctx, addr)
	if err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "mint_confirmed").
		AddEvent(EventTypeMinted,
			sdk.NewAttribute("token_id", pending.TokenID),
			sdk.NewAttribute("owner", pending.Recipient),
			sdk.NewAttribute("payment", pending.Payment),
			sdk.NewAttribute("collection", addr.String()),
		), nil
}

// Address of the contract created by an instantiate sub-message
func instantiatedAddress(res *host.SubMsgResponse) (sdk.AccAddress, error) {
	var result host.InstantiateResult
	if len(res.Data) > 0 {
		err := json.Unmarshal(res.Data, &result)
		if err != nil {
			return nil, errorsmod.Wrap(ErrDecode, err.Error())
		}
	}
	if result.ContractAddress == "" {
		result.ContractAddress, _ = res.Attribute(host.EventTypeInstantiate, host.AttributeKeyContractAddr)
	}
	if result.ContractAddress == "" {
		return nil, errorsmod.Wrap(ErrSubcallFailure, "instantiate result without contract address")
	}
	return host.ParseAddress(result.ContractAddress)
}
