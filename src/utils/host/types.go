package host

import (
	"encoding/json"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	EventTypeWasm        = "wasm"
	EventTypeWasmPrefix  = "wasm-"
	EventTypeInstantiate = "instantiate"
	EventTypeExecute     = "execute"
	EventTypeMigrate     = "migrate"
	EventTypeReply       = "reply"
	EventTypeTransfer    = "transfer"

	AttributeKeyContractAddr = "_contract_address"
	AttributeKeyCodeID       = "code_id"
	AttributeKeyReplyID      = "reply_id"
	AttributeKeySender       = "sender"
	AttributeKeyRecipient    = "recipient"
	AttributeKeyAmount       = "amount"
)

type BlockInfo struct {
	Height  int64     `json:"height"`
	Time    time.Time `json:"time"`
	ChainID string    `json:"chain_id"`
}

type ContractInfo struct {
	Address sdk.AccAddress `json:"address"`
}

type TransactionInfo struct {
	ID string `json:"id"`
}

// Environment of a single contract call
type Env struct {
	Block       BlockInfo        `json:"block"`
	Contract    ContractInfo     `json:"contract"`
	Transaction *TransactionInfo `json:"transaction,omitempty"`
}

type MessageInfo struct {
	Sender sdk.AccAddress `json:"sender"`
	Funds  sdk.Coins      `json:"funds"`
}

// Custom contract event, emitted as wasm-<Type>
type Event struct {
	Type       string
	Attributes []sdk.Attribute
}

// Result of a contract entry point
type Response struct {
	Messages   []SubMsg
	Attributes []sdk.Attribute
	Events     []Event
	Data       []byte
}

func NewResponse() *Response {
	return new(Response)
}

func (self *Response) AddAttribute(key, value string) *Response {
	self.Attributes = append(self.Attributes, sdk.NewAttribute(key, value))
	return self
}

// Fire and forget message, its failure aborts the transaction
func (self *Response) AddMessage(msg CosmosMsg) *Response {
	self.Messages = append(self.Messages, SubMsg{Msg: msg, ReplyOn: ReplyNever})
	return self
}

func (self *Response) AddSubMessage(msg SubMsg) *Response {
	self.Messages = append(self.Messages, msg)
	return self
}

func (self *Response) AddEvent(ty string, attrs ...sdk.Attribute) *Response {
	self.Events = append(self.Events, Event{Type: ty, Attributes: attrs})
	return self
}

func (self *Response) WithData(data []byte) *Response {
	self.Data = data
	return self
}

// Decides when the host calls the reply entry point of the dispatching contract
type ReplyOn int

const (
	ReplyNever ReplyOn = iota
	ReplySuccess
	ReplyError
	ReplyAlways
)

func (self ReplyOn) String() string {
	switch self {
	case ReplySuccess:
		return "success"
	case ReplyError:
		return "error"
	case ReplyAlways:
		return "always"
	}
	return "never"
}

func (self ReplyOn) onSuccess() bool {
	return self == ReplySuccess || self == ReplyAlways
}

func (self ReplyOn) onError() bool {
	return self == ReplyError || self == ReplyAlways
}

type SubMsg struct {
	ID      uint64
	Msg     CosmosMsg
	ReplyOn ReplyOn
}

type CosmosMsg struct {
	Bank *BankMsg
	Wasm *WasmMsg
}

type BankMsg struct {
	Send *BankSend
}

type BankSend struct {
	ToAddress sdk.AccAddress
	Amount    sdk.Coins
}

type WasmMsg struct {
	Execute     *WasmExecute
	Instantiate *WasmInstantiate
}

type WasmExecute struct {
	ContractAddr sdk.AccAddress
	Msg          json.RawMessage
	Funds        sdk.Coins
}

type WasmInstantiate struct {
	Admin  sdk.AccAddress
	CodeID uint64
	Msg    json.RawMessage
	Funds  sdk.Coins
	Label  string
}

// Builds an execute message with a JSON encoded payload
func NewExecuteMsg(contract sdk.AccAddress, msg any, funds sdk.Coins) (out CosmosMsg, err error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	out.Wasm = &WasmMsg{Execute: &WasmExecute{ContractAddr: contract, Msg: raw, Funds: funds}}
	return
}

// Builds an instantiate message with a JSON encoded payload
func NewInstantiateMsg(admin sdk.AccAddress, codeID uint64, msg any, label string) (out CosmosMsg, err error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	out.Wasm = &WasmMsg{Instantiate: &WasmInstantiate{Admin: admin, CodeID: codeID, Msg: raw, Label: label}}
	return
}

type SubMsgResponse struct {
	Events sdk.Events
	Data   []byte
}

// Looks up the first attribute with the given key in events of the given type
func (self *SubMsgResponse) Attribute(eventType, key string) (string, bool) {
	return findAttribute(self.Events, eventType, key)
}

type SubMsgResult struct {
	Ok  *SubMsgResponse
	Err string
}

func (self SubMsgResult) IsOk() bool {
	return self.Ok != nil
}

type Reply struct {
	ID     uint64
	Result SubMsgResult
}

// Data returned to the dispatcher of an instantiate sub-message
type InstantiateResult struct {
	ContractAddress string `json:"contract_address"`
	Data            []byte `json:"data,omitempty"`
}

func findAttribute(events sdk.Events, eventType, key string) (string, bool) {
	for _, ev := range events {
		if ev.Type != eventType {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == key {
				return attr.Value, true
			}
		}
	}
	return "", false
}
