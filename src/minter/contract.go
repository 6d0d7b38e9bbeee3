package minter

import (
	"context"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"

	"github.com/warp-contracts/minter/src/cw721"
	"github.com/warp-contracts/minter/src/utils/host"
)

const (
	ContractName = "cw721-minter"
	Version      = "0.1.0"
)

var (
	ConfigPrefix   = collections.NewPrefix(0)
	PendingPrefix  = collections.NewPrefix(1)
	TokenSeqPrefix = collections.NewPrefix(2)
	VersionPrefix  = collections.NewPrefix(3)
	LastMintPrefix = collections.NewPrefix(4)
)

// Sells tokens of a cw721 collection for a native coin or a cw20 token
type Contract struct {
	config   collections.Item[Config]
	pending  collections.Item[PendingMint]
	tokenSeq collections.Sequence
	version  collections.Item[VersionInfo]

	// Height of the block with the last dispatched mint
	lastMintHeight collections.Item[int64]
}

func New(store corestore.KVStoreService) host.Contract {
	sb := collections.NewSchemaBuilder(store)
	self := &Contract{
		config:   collections.NewItem(sb, ConfigPrefix, "config", host.JSONValue[Config]()),
		pending:  collections.NewItem(sb, PendingPrefix, "pending", host.JSONValue[PendingMint]()),
		tokenSeq: collections.NewSequence(sb, TokenSeqPrefix, "token_seq"),
		version:  collections.NewItem(sb, VersionPrefix, "contract_info", host.JSONValue[VersionInfo]()),

		lastMintHeight: collections.NewItem(sb, LastMintPrefix, "last_mint_height", collections.Int64Value),
	}
	_, err := sb.Build()
	if err != nil {
		panic(err)
	}
	return self
}

// Stores the configuration and creates the collection with this contract as its minter
func (self *Contract) Instantiate(ctx context.Context, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg InstantiateMsg
	err := decode(raw, &msg)
	if err != nil {
		return nil, err
	}

	config, err := msg.toConfig()
	if err != nil {
		return nil, err
	}

	err = self.initConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	err = self.version.Set(ctx, VersionInfo{Contract: ContractName, Version: Version})
	if err != nil {
		return nil, err
	}

	// Token ids start at 1
	err = self.tokenSeq.Set(ctx, 1)
	if err != nil {
		return nil, err
	}

	name, symbol := msg.NftName, msg.NftSymbol
	if name == "" {
		name = DefaultNftName
	}
	if symbol == "" {
		symbol = DefaultNftSymbol
	}

	addr := env.Contract.Address
	instantiate, err := host.NewInstantiateMsg(addr, config.NftCodeID, cw721.InstantiateMsg{
		Name:   name,
		Symbol: symbol,
		Minter: addr.String(),
	}, addr.String()+"/collection")
	if err != nil {
		return nil, errorsmod.Wrap(ErrDecode, err.Error())
	}

	return host.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("native_denom", config.NativeDenom).
		AddAttribute("native_price", config.NativePrice.String()).
		AddAttribute("cw20_address", config.Cw20Address).
		AddAttribute("cw20_price", config.Cw20Price.String()).
		AddSubMessage(host.SubMsg{
			ID:      InstantiateReplyID,
			Msg:     instantiate,
			ReplyOn: host.ReplySuccess,
		}), nil
}

func (self *Contract) Execute(ctx context.Context, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	variant, body, err := decodeVariant(raw)
	if err != nil {
		return nil, err
	}

	config, err := self.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	switch variant {
	case ExecuteReceive:
		recipient, err := verifyNotification(&config, info, body)
		if err != nil {
			return nil, err
		}
		return self.dispatchMint(ctx, &config, env.Block.Height, recipient, PaymentCw20)
	case ExecuteMint:
		err = decode(body, &struct{}{})
		if err != nil {
			return nil, err
		}
		err = verifyFunds(&config, info.Funds)
		if err != nil {
			return nil, err
		}
		return self.dispatchMint(ctx, &config, env.Block.Height, info.Sender, PaymentNative)
	case ExecuteUpdateConfig:
		return nil, errorsmod.Wrap(ErrUnauthorized, "configuration is immutable")
	}
	return nil, errorsmod.Wrapf(ErrDecode, "unknown execute message %q", variant)
}
