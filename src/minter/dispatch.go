package minter

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/cw721"
	"github.com/warp-contracts/minter/src/utils/host"
)

// Asks the collection to mint the next token to the recipient. The outcome comes back as the MintReplyID reply.
// At most one mint per block.
func (self *Contract) dispatchMint(ctx context.Context, config *Config, height int64, recipient sdk.AccAddress, payment string) (*host.Response, error) {
	if config.NftAddress == "" {
		return nil, ErrCollectionNotReady
	}
	collection, err := host.ParseAddress(config.NftAddress)
	if err != nil {
		return nil, err
	}

	pending, err := self.pending.Has(ctx)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrMintPending
	}

	last, err := self.lastMintHeight.Get(ctx)
	switch {
	case err == nil && last >= height:
		return nil, errorsmod.Wrapf(ErrMintedThisBlock, "height %d", height)
	case err != nil && !errors.Is(err, collections.ErrNotFound):
		return nil, err
	}
	err = self.lastMintHeight.Set(ctx, height)
	if err != nil {
		return nil, err
	}

	seq, err := self.tokenSeq.Next(ctx)
	if err != nil {
		return nil, err
	}
	tokenID := strconv.FormatUint(seq, 10)

	err = self.pending.Set(ctx, PendingMint{
		Recipient: recipient.String(),
		TokenID:   tokenID,
		Payment:   payment,
	})
	if err != nil {
		return nil, err
	}

	msg, err := host.NewExecuteMsg(collection, cw721.ExecuteMsg{
		Mint: &cw721.MintMsg{
			TokenID: tokenID,
			Owner:   recipient.String(),
		},
	}, nil)
	if err != nil {
		return nil, errorsmod.Wrap(ErrDecode, err.Error())
	}

	return host.NewResponse().
		AddAttribute("action", "mint").
		AddAttribute("payment", payment).
		AddAttribute("recipient", recipient.String()).
		AddAttribute("token_id", tokenID).
		AddSubMessage(host.SubMsg{
			ID:      MintReplyID,
			Msg:     msg,
			ReplyOn: host.ReplyAlways,
		}), nil
}
