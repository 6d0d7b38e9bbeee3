package host

import (
	"encoding/json"
	"strconv"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

func (self *Host) env(ctx sdk.Context, contract sdk.AccAddress) (env Env) {
	env.Block = BlockInfo{
		Height:  ctx.BlockHeight(),
		Time:    ctx.BlockTime(),
		ChainID: ctx.ChainID(),
	}
	env.Contract = ContractInfo{Address: contract}
	if id, ok := ctx.Value(txIDKey{}).(string); ok {
		env.Transaction = &TransactionInfo{ID: id}
	}
	return
}

func (self *Host) transfer(ctx sdk.Context, from, to sdk.AccAddress, coins sdk.Coins) error {
	if coins.Empty() {
		return nil
	}

	err := self.bank.Send(ctx, from, to, coins)
	if err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeTransfer,
		sdk.NewAttribute(AttributeKeyRecipient, to.String()),
		sdk.NewAttribute(AttributeKeySender, from.String()),
		sdk.NewAttribute(AttributeKeyAmount, coins.String()),
	))
	return nil
}

func (self *Host) instantiate(ctx sdk.Context, sender, admin sdk.AccAddress, codeID uint64, label string, msg []byte, funds sdk.Coins) (addr sdk.AccAddress, data []byte, err error) {
	code, ok := self.codes[codeID]
	if !ok {
		err = errorsmod.Wrapf(ErrUnknownCode, "code %d", codeID)
		return
	}
	if label == "" {
		err = errorsmod.Wrap(ErrInvalidMsg, "empty label")
		return
	}

	taken, err := self.labels.Has(ctx, label)
	if err != nil {
		return
	}
	if taken {
		err = errorsmod.Wrapf(ErrDuplicateLabel, "%s", label)
		return
	}

	seq, err := self.instanceSeq.Next(ctx)
	if err != nil {
		return
	}
	addr = contractAddress(codeID, seq)

	meta := ContractMeta{
		CodeID:  codeID,
		Creator: sender.String(),
		Label:   label,
		Created: ctx.BlockHeight(),
	}
	if !admin.Empty() {
		meta.Admin = admin.String()
	}
	err = self.contracts.Set(ctx, addr, meta)
	if err != nil {
		return
	}
	err = self.labels.Set(ctx, label, addr)
	if err != nil {
		return
	}

	err = self.transfer(ctx, sender, addr, funds)
	if err != nil {
		return
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeInstantiate,
		sdk.NewAttribute(AttributeKeyContractAddr, addr.String()),
		sdk.NewAttribute(AttributeKeyCodeID, strconv.FormatUint(codeID, 10)),
	))

	instance := code.factory(newContractStoreService(self.wasmKey, addr))

	var res *Response
	err = protect(func() (err error) {
		res, err = instance.Instantiate(ctx, self.env(ctx, addr), MessageInfo{Sender: sender, Funds: funds}, msg)
		return
	})
	if err != nil {
		return
	}

	data, err = self.handleResponse(ctx, addr, res)
	return
}

func (self *Host) execute(ctx sdk.Context, sender, contract sdk.AccAddress, msg []byte, funds sdk.Coins) (data []byte, err error) {
	instance, _, err := self.instance(ctx, contract)
	if err != nil {
		return
	}

	// Funds arrive before the contract runs
	err = self.transfer(ctx, sender, contract, funds)
	if err != nil {
		return
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeExecute,
		sdk.NewAttribute(AttributeKeyContractAddr, contract.String()),
	))

	var res *Response
	err = protect(func() (err error) {
		res, err = instance.Execute(ctx, self.env(ctx, contract), MessageInfo{Sender: sender, Funds: funds}, msg)
		return
	})
	if err != nil {
		return
	}

	return self.handleResponse(ctx, contract, res)
}

func (self *Host) migrate(ctx sdk.Context, sender, contract sdk.AccAddress, codeID uint64, msg []byte) (data []byte, err error) {
	meta, err := self.meta(ctx, contract)
	if err != nil {
		return
	}
	if meta.Admin == "" || meta.Admin != sender.String() {
		err = errorsmod.Wrapf(ErrUnauthorized, "%s is not the admin of %s", sender, contract)
		return
	}

	code, ok := self.codes[codeID]
	if !ok {
		err = errorsmod.Wrapf(ErrUnknownCode, "code %d", codeID)
		return
	}

	migrator, ok := code.factory(newContractStoreService(self.wasmKey, contract)).(Migrator)
	if !ok {
		err = errorsmod.Wrapf(ErrNotMigratable, "code %d", codeID)
		return
	}

	meta.CodeID = codeID
	err = self.contracts.Set(ctx, contract, meta)
	if err != nil {
		return
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeMigrate,
		sdk.NewAttribute(AttributeKeyContractAddr, contract.String()),
		sdk.NewAttribute(AttributeKeyCodeID, strconv.FormatUint(codeID, 10)),
	))

	var res *Response
	err = protect(func() (err error) {
		res, err = migrator.Migrate(ctx, self.env(ctx, contract), msg)
		return
	})
	if err != nil {
		return
	}

	return self.handleResponse(ctx, contract, res)
}

func (self *Host) query(ctx sdk.Context, contract sdk.AccAddress, msg []byte) (out []byte, err error) {
	instance, _, err := self.instance(ctx, contract)
	if err != nil {
		return
	}

	err = protect(func() (err error) {
		out, err = instance.Query(ctx, self.env(ctx, contract), msg)
		return
	})
	return
}

// Emits events of the response and runs its messages in order.
// Data set by a reply replaces the data of the response.
func (self *Host) handleResponse(ctx sdk.Context, contract sdk.AccAddress, res *Response) (data []byte, err error) {
	if res == nil {
		return
	}

	contractAttr := sdk.NewAttribute(AttributeKeyContractAddr, contract.String())
	if len(res.Attributes) > 0 {
		attrs := append([]sdk.Attribute{contractAttr}, res.Attributes...)
		ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeWasm, attrs...))
	}
	for _, ev := range res.Events {
		if ev.Type == "" {
			err = errorsmod.Wrap(ErrInvalidMsg, "event without type")
			return
		}
		attrs := append([]sdk.Attribute{contractAttr}, ev.Attributes...)
		ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeWasmPrefix+ev.Type, attrs...))
	}

	data = res.Data
	for _, msg := range res.Messages {
		var (
			replyData []byte
			replied   bool
		)
		replyData, replied, err = self.dispatchSubMsg(ctx, contract, msg)
		if err != nil {
			return
		}
		if replied && replyData != nil {
			data = replyData
		}
	}
	return
}

// Runs the message on its own branch of the state.
// The branch is merged only on success, the reply (if requested) sees the merged state.
func (self *Host) dispatchSubMsg(ctx sdk.Context, contract sdk.AccAddress, msg SubMsg) (data []byte, replied bool, err error) {
	branch := ctx.MultiStore().CacheMultiStore()
	em := sdk.NewEventManager()
	subCtx := ctx.WithMultiStore(branch).WithEventManager(em)

	var subData []byte
	err = protect(func() (err error) {
		subData, err = self.dispatchMsg(subCtx, contract, msg.Msg)
		return
	})

	var result SubMsgResult
	if err == nil {
		branch.Write()
		events := em.Events()
		ctx.EventManager().EmitEvents(events)
		if !msg.ReplyOn.onSuccess() {
			return
		}
		result.Ok = &SubMsgResponse{Events: events, Data: subData}
	} else {
		if !msg.ReplyOn.onError() {
			return
		}
		result.Err = err.Error()
		err = nil
	}

	data, err = self.reply(ctx, contract, Reply{ID: msg.ID, Result: result})
	replied = true
	return
}

func (self *Host) dispatchMsg(ctx sdk.Context, contract sdk.AccAddress, msg CosmosMsg) ([]byte, error) {
	switch {
	case msg.Bank != nil && msg.Bank.Send != nil:
		return nil, self.transfer(ctx, contract, msg.Bank.Send.ToAddress, msg.Bank.Send.Amount)
	case msg.Wasm != nil && msg.Wasm.Execute != nil:
		m := msg.Wasm.Execute
		return self.execute(ctx, contract, m.ContractAddr, m.Msg, m.Funds)
	case msg.Wasm != nil && msg.Wasm.Instantiate != nil:
		m := msg.Wasm.Instantiate
		addr, data, err := self.instantiate(ctx, contract, m.Admin, m.CodeID, m.Label, m.Msg, m.Funds)
		if err != nil {
			return nil, err
		}
		return json.Marshal(InstantiateResult{ContractAddress: addr.String(), Data: data})
	}
	return nil, errorsmod.Wrap(ErrInvalidMsg, "empty message")
}

func (self *Host) reply(ctx sdk.Context, contract sdk.AccAddress, reply Reply) (data []byte, err error) {
	instance, _, err := self.instance(ctx, contract)
	if err != nil {
		return
	}

	replier, ok := instance.(Replier)
	if !ok {
		err = errorsmod.Wrapf(ErrNoReply, "contract %s", contract)
		return
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeReply,
		sdk.NewAttribute(AttributeKeyContractAddr, contract.String()),
		sdk.NewAttribute(AttributeKeyReplyID, strconv.FormatUint(reply.ID, 10)),
	))

	var res *Response
	err = protect(func() (err error) {
		res, err = replier.Reply(ctx, self.env(ctx, contract), reply)
		return
	})
	if err != nil {
		return
	}

	return self.handleResponse(ctx, contract, res)
}
