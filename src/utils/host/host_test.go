package host

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const failingReplyID = 99

var errCounterFailed = errorsmod.Register("counter", 2, "counter failed")

// Test contract keeping a counter
type counter struct {
	Count     collections.Item[uint64]
	LastReply collections.Item[string]
}

type counterInit struct {
	Start uint64 `json:"start"`
}

type counterMsg struct {
	Increment *struct{} `json:"increment,omitempty"`
	Fail      *struct{} `json:"fail,omitempty"`
	Panic     *struct{} `json:"panic,omitempty"`
	Call      *callMsg  `json:"call,omitempty"`
	Spawn     *spawnMsg `json:"spawn,omitempty"`
}

type callMsg struct {
	Target  string          `json:"target"`
	Msg     json.RawMessage `json:"msg"`
	ReplyOn ReplyOn         `json:"reply_on"`
	ID      uint64          `json:"id"`
}

type spawnMsg struct {
	CodeID uint64 `json:"code_id"`
	Label  string `json:"label"`
}

func newCounter(store corestore.KVStoreService) Contract {
	sb := collections.NewSchemaBuilder(store)
	self := &counter{
		Count:     collections.NewItem(sb, collections.NewPrefix(0), "count", collections.Uint64Value),
		LastReply: collections.NewItem(sb, collections.NewPrefix(1), "last_reply", collections.StringValue),
	}
	_, err := sb.Build()
	if err != nil {
		panic(err)
	}
	return self
}

func (self *counter) increment(ctx context.Context) error {
	count, err := self.Count.Get(ctx)
	if err != nil {
		return err
	}
	return self.Count.Set(ctx, count+1)
}

func (self *counter) Instantiate(ctx context.Context, env Env, info MessageInfo, msg []byte) (*Response, error) {
	var init counterInit
	err := json.Unmarshal(msg, &init)
	if err != nil {
		return nil, err
	}
	err = self.Count.Set(ctx, init.Start)
	if err != nil {
		return nil, err
	}
	return NewResponse().AddAttribute("action", "instantiate").WithData([]byte("created")), nil
}

func (self *counter) Execute(ctx context.Context, env Env, info MessageInfo, msg []byte) (*Response, error) {
	var m counterMsg
	err := json.Unmarshal(msg, &m)
	if err != nil {
		return nil, err
	}

	err = self.increment(ctx)
	if err != nil {
		return nil, err
	}

	res := NewResponse()
	switch {
	case m.Increment != nil:
		res.AddAttribute("action", "increment").AddEvent("counted", sdk.NewAttribute("by", info.Sender.String()))
	case m.Fail != nil:
		return nil, errCounterFailed
	case m.Panic != nil:
		panic("boom")
	case m.Call != nil:
		target, err := ParseAddress(m.Call.Target)
		if err != nil {
			return nil, err
		}
		res.AddSubMessage(SubMsg{
			ID:      m.Call.ID,
			Msg:     CosmosMsg{Wasm: &WasmMsg{Execute: &WasmExecute{ContractAddr: target, Msg: m.Call.Msg}}},
			ReplyOn: m.Call.ReplyOn,
		})
	case m.Spawn != nil:
		sub, err := NewInstantiateMsg(nil, m.Spawn.CodeID, counterInit{Start: 7}, m.Spawn.Label)
		if err != nil {
			return nil, err
		}
		res.AddSubMessage(SubMsg{ID: 1, Msg: sub, ReplyOn: ReplySuccess})
	}
	return res, nil
}

func (self *counter) Reply(ctx context.Context, env Env, reply Reply) (*Response, error) {
	if reply.ID == failingReplyID {
		return nil, errCounterFailed
	}

	value := "err:" + reply.Result.Err
	if reply.Result.IsOk() {
		value = "ok"
		if addr, ok := reply.Result.Ok.Attribute(EventTypeInstantiate, AttributeKeyContractAddr); ok {
			value = "ok:" + addr
		}
	}
	err := self.LastReply.Set(ctx, value)
	if err != nil {
		return nil, err
	}
	return NewResponse().WithData([]byte("replied")), nil
}

func (self *counter) Migrate(ctx context.Context, env Env, msg []byte) (*Response, error) {
	return nil, self.Count.Set(ctx, 100)
}

func (self *counter) Query(ctx context.Context, env Env, msg []byte) ([]byte, error) {
	count, err := self.Count.Get(ctx)
	if err != nil {
		return nil, err
	}
	reply, err := self.LastReply.Get(ctx)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return nil, err
	}
	return json.Marshal(map[string]string{"count": strconv.FormatUint(count, 10), "last_reply": reply})
}

// Same contract without the migrate and reply entry points
type plainCounter struct {
	Contract
}

func newPlainCounter(store corestore.KVStoreService) Contract {
	return plainCounter{Contract: newCounter(store)}
}

func TestHostTestSuite(t *testing.T) {
	suite.Run(t, new(HostTestSuite))
}

type HostTestSuite struct {
	suite.Suite
	host    *Host
	codeID  uint64
	plainID uint64
	alice   sdk.AccAddress
	bob     sdk.AccAddress
}

func (s *HostTestSuite) SetupTest() {
	var err error
	s.host, err = NewWithDB(dbm.NewMemDB(), "test-1")
	require.Nil(s.T(), err)

	s.codeID = s.host.StoreCode("counter", newCounter)
	s.plainID = s.host.StoreCode("plain-counter", newPlainCounter)
	s.alice = AccountAddress("alice")
	s.bob = AccountAddress("bob")
}

func (s *HostTestSuite) TearDownTest() {
	require.Nil(s.T(), s.host.Close())
}

func (s *HostTestSuite) instantiate(codeID uint64, label string) sdk.AccAddress {
	res, err := s.host.Instantiate(s.alice, s.alice, codeID, label, []byte(`{"start":1}`), nil)
	require.Nil(s.T(), err)
	require.NotEmpty(s.T(), res.ContractAddress)
	return res.ContractAddress
}

func (s *HostTestSuite) state(addr sdk.AccAddress) map[string]string {
	out, err := s.host.Query(addr, []byte(`{}`))
	require.Nil(s.T(), err)

	var state map[string]string
	require.Nil(s.T(), json.Unmarshal(out, &state))
	return state
}

func (s *HostTestSuite) call(target sdk.AccAddress, msg string, replyOn ReplyOn, id uint64) []byte {
	out, err := json.Marshal(counterMsg{Call: &callMsg{Target: target.String(), Msg: json.RawMessage(msg), ReplyOn: replyOn, ID: id}})
	require.Nil(s.T(), err)
	return out
}

func (s *HostTestSuite) TestInstantiate() {
	addr := s.instantiate(s.codeID, "first")
	require.Equal(s.T(), "1", s.state(addr)["count"])
	require.Equal(s.T(), int64(1), s.host.Height())

	found, err := s.host.ContractByLabel("first")
	require.Nil(s.T(), err)
	require.Equal(s.T(), addr, found)

	meta, err := s.host.ContractMeta(addr)
	require.Nil(s.T(), err)
	require.Equal(s.T(), s.codeID, meta.CodeID)
	require.Equal(s.T(), s.alice.String(), meta.Creator)
	require.Equal(s.T(), s.alice.String(), meta.Admin)
}

func (s *HostTestSuite) TestAddressesAreDeterministic() {
	first := s.instantiate(s.codeID, "first")
	second := s.instantiate(s.codeID, "second")
	require.NotEqual(s.T(), first, second)
	require.Equal(s.T(), contractAddress(s.codeID, 0), first)
	require.Equal(s.T(), contractAddress(s.codeID, 1), second)
}

func (s *HostTestSuite) TestDuplicateLabel() {
	s.instantiate(s.codeID, "first")
	_, err := s.host.Instantiate(s.alice, nil, s.codeID, "first", []byte(`{"start":1}`), nil)
	require.True(s.T(), errors.Is(err, ErrDuplicateLabel))
}

func (s *HostTestSuite) TestUnknownCode() {
	_, err := s.host.Instantiate(s.alice, nil, 42, "first", []byte(`{}`), nil)
	require.True(s.T(), errors.Is(err, ErrUnknownCode))
}

func (s *HostTestSuite) TestUnknownContract() {
	_, err := s.host.Execute(s.alice, AccountAddress("nobody"), []byte(`{"increment":{}}`), nil)
	require.True(s.T(), errors.Is(err, ErrUnknownContract))

	_, err = s.host.ContractByLabel("nothing")
	require.True(s.T(), errors.Is(err, ErrUnknownContract))
}

func (s *HostTestSuite) TestExecuteEmitsEvents() {
	addr := s.instantiate(s.codeID, "first")

	res, err := s.host.Execute(s.alice, addr, []byte(`{"increment":{}}`), nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "2", s.state(addr)["count"])

	action, ok := res.Attribute(EventTypeWasm, "action")
	require.True(s.T(), ok)
	require.Equal(s.T(), "increment", action)

	by, ok := res.Attribute(EventTypeWasmPrefix+"counted", "by")
	require.True(s.T(), ok)
	require.Equal(s.T(), s.alice.String(), by)

	contract, ok := res.Attribute(EventTypeExecute, AttributeKeyContractAddr)
	require.True(s.T(), ok)
	require.Equal(s.T(), addr.String(), contract)
	require.NotEmpty(s.T(), res.ID)
	require.NotEmpty(s.T(), res.AppHash)
}

func (s *HostTestSuite) TestFailureRevertsStateAndFunds() {
	addr := s.instantiate(s.codeID, "first")
	_, err := s.host.Fund(s.bob, sdk.NewCoins(sdk.NewInt64Coin("uusd", 500)))
	require.Nil(s.T(), err)
	height := s.host.Height()

	var reverted error
	s.host.WithOnRevert(func(id string, err error) { reverted = err })

	_, err = s.host.Execute(s.bob, addr, []byte(`{"fail":{}}`), sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.True(s.T(), errors.Is(err, errCounterFailed))
	require.True(s.T(), errors.Is(reverted, errCounterFailed))

	require.Equal(s.T(), "1", s.state(addr)["count"])
	require.Equal(s.T(), height, s.host.Height())

	balance, err := s.host.Balance(s.bob, "uusd")
	require.Nil(s.T(), err)
	require.Equal(s.T(), math.NewInt(500), balance)

	balance, err = s.host.Balance(addr, "uusd")
	require.Nil(s.T(), err)
	require.True(s.T(), balance.IsZero())
}

func (s *HostTestSuite) TestFundsMovedBeforeExecution() {
	addr := s.instantiate(s.codeID, "first")
	_, err := s.host.Fund(s.bob, sdk.NewCoins(sdk.NewInt64Coin("uusd", 500)))
	require.Nil(s.T(), err)

	res, err := s.host.Execute(s.bob, addr, []byte(`{"increment":{}}`), sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.Nil(s.T(), err)

	amount, ok := res.Attribute(EventTypeTransfer, AttributeKeyAmount)
	require.True(s.T(), ok)
	require.Equal(s.T(), "200uusd", amount)

	balances, err := s.host.AllBalances(addr)
	require.Nil(s.T(), err)
	require.Equal(s.T(), sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)), balances)
}

func (s *HostTestSuite) TestInsufficientFunds() {
	addr := s.instantiate(s.codeID, "first")
	_, err := s.host.Execute(s.bob, addr, []byte(`{"increment":{}}`), sdk.NewCoins(sdk.NewInt64Coin("uusd", 1)))
	require.True(s.T(), errors.Is(err, sdkerrors.ErrInsufficientFunds))
	require.Equal(s.T(), "1", s.state(addr)["count"])
}

func (s *HostTestSuite) TestPanicBecomesError() {
	addr := s.instantiate(s.codeID, "first")
	_, err := s.host.Execute(s.alice, addr, []byte(`{"panic":{}}`), nil)
	require.True(s.T(), errors.Is(err, ErrContractPanic))
	require.Equal(s.T(), "1", s.state(addr)["count"])
}

func (s *HostTestSuite) TestSubMessageSuccessWithReply() {
	parent := s.instantiate(s.codeID, "parent")
	child := s.instantiate(s.codeID, "child")

	res, err := s.host.Execute(s.alice, parent, s.call(child, `{"increment":{}}`, ReplyAlways, 1), nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), []byte("replied"), res.Data)

	require.Equal(s.T(), "2", s.state(parent)["count"])
	require.Equal(s.T(), "ok", s.state(parent)["last_reply"])
	require.Equal(s.T(), "2", s.state(child)["count"])

	id, ok := res.Attribute(EventTypeReply, AttributeKeyReplyID)
	require.True(s.T(), ok)
	require.Equal(s.T(), "1", id)
}

func (s *HostTestSuite) TestSubMessageErrorReplyKeepsCaller() {
	parent := s.instantiate(s.codeID, "parent")
	child := s.instantiate(s.codeID, "child")

	_, err := s.host.Execute(s.alice, parent, s.call(child, `{"fail":{}}`, ReplyError, 1), nil)
	require.Nil(s.T(), err)

	// Only the child's branch is discarded
	require.Equal(s.T(), "2", s.state(parent)["count"])
	require.Contains(s.T(), s.state(parent)["last_reply"], "err:")
	require.Equal(s.T(), "1", s.state(child)["count"])
}

func (s *HostTestSuite) TestSubMessageFailureWithoutErrorReplyAborts() {
	parent := s.instantiate(s.codeID, "parent")
	child := s.instantiate(s.codeID, "child")

	_, err := s.host.Execute(s.alice, parent, s.call(child, `{"fail":{}}`, ReplySuccess, 1), nil)
	require.True(s.T(), errors.Is(err, errCounterFailed))
	require.Equal(s.T(), "1", s.state(parent)["count"])
	require.Equal(s.T(), "", s.state(parent)["last_reply"])
}

func (s *HostTestSuite) TestReplyErrorAborts() {
	parent := s.instantiate(s.codeID, "parent")
	child := s.instantiate(s.codeID, "child")

	_, err := s.host.Execute(s.alice, parent, s.call(child, `{"increment":{}}`, ReplyAlways, failingReplyID), nil)
	require.True(s.T(), errors.Is(err, errCounterFailed))
	require.Equal(s.T(), "1", s.state(parent)["count"])
	require.Equal(s.T(), "1", s.state(child)["count"])
}

func (s *HostTestSuite) TestReplyRequiresEntryPoint() {
	parent := s.instantiate(s.plainID, "parent")
	child := s.instantiate(s.codeID, "child")

	_, err := s.host.Execute(s.alice, parent, s.call(child, `{"increment":{}}`, ReplySuccess, 1), nil)
	require.True(s.T(), errors.Is(err, ErrNoReply))

	_, err = s.host.Execute(s.alice, parent, s.call(child, `{"increment":{}}`, ReplyNever, 1), nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "2", s.state(child)["count"])
}

func (s *HostTestSuite) TestInstantiateSubMessage() {
	parent := s.instantiate(s.codeID, "parent")

	msg, err := json.Marshal(counterMsg{Spawn: &spawnMsg{CodeID: s.codeID, Label: "spawned"}})
	require.Nil(s.T(), err)

	_, err = s.host.Execute(s.alice, parent, msg, nil)
	require.Nil(s.T(), err)

	spawned, err := s.host.ContractByLabel("spawned")
	require.Nil(s.T(), err)
	require.Equal(s.T(), "7", s.state(spawned)["count"])
	require.Equal(s.T(), "ok:"+spawned.String(), s.state(parent)["last_reply"])

	meta, err := s.host.ContractMeta(spawned)
	require.Nil(s.T(), err)
	require.Equal(s.T(), parent.String(), meta.Creator)
}

func (s *HostTestSuite) TestMigrate() {
	addr := s.instantiate(s.codeID, "first")

	_, err := s.host.Migrate(s.bob, addr, s.codeID, []byte(`{}`))
	require.True(s.T(), errors.Is(err, ErrUnauthorized))

	_, err = s.host.Migrate(s.alice, addr, s.plainID, []byte(`{}`))
	require.True(s.T(), errors.Is(err, ErrNotMigratable))

	_, err = s.host.Migrate(s.alice, addr, s.codeID, []byte(`{}`))
	require.Nil(s.T(), err)
	require.Equal(s.T(), "100", s.state(addr)["count"])
}

func (s *HostTestSuite) TestOnCommit() {
	var results []*TxResult
	s.host.WithOnCommit(func(result *TxResult) { results = append(results, result) })

	addr := s.instantiate(s.codeID, "first")
	_, err := s.host.Execute(s.alice, addr, []byte(`{"increment":{}}`), nil)
	require.Nil(s.T(), err)

	require.Len(s.T(), results, 2)
	require.Equal(s.T(), int64(1), results[0].Height)
	require.Equal(s.T(), int64(2), results[1].Height)
	require.Equal(s.T(), []byte("created"), results[0].Data)
}

func (s *HostTestSuite) TestClock() {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.host.WithClock(func() time.Time { return now })

	res, err := s.host.Fund(s.bob, sdk.NewCoins(sdk.NewInt64Coin("uusd", 1)))
	require.Nil(s.T(), err)
	require.Equal(s.T(), now, res.Time)

	now = now.Add(time.Minute)
	res, err = s.host.Fund(s.bob, sdk.NewCoins(sdk.NewInt64Coin("uusd", 1)))
	require.Nil(s.T(), err)
	require.Equal(s.T(), now, res.Time)
}

func (s *HostTestSuite) TestCodes() {
	codes := s.host.Codes()
	require.Len(s.T(), codes, 2)
	require.Equal(s.T(), s.codeID, codes[0].ID)
	require.Equal(s.T(), "counter", codes[0].Name)
	require.Equal(s.T(), s.plainID, codes[1].ID)
	require.Equal(s.T(), "plain-counter", codes[1].Name)
}

func (s *HostTestSuite) TestStatePersistsAcrossReopen() {
	db := dbm.NewMemDB()
	h, err := NewWithDB(db, "test-1")
	require.Nil(s.T(), err)
	codeID := h.StoreCode("counter", newCounter)

	res, err := h.Instantiate(s.alice, nil, codeID, "first", []byte(`{"start":5}`), nil)
	require.Nil(s.T(), err)

	reopened, err := NewWithDB(db, "test-1")
	require.Nil(s.T(), err)
	reopened.StoreCode("counter", newCounter)
	require.Equal(s.T(), int64(1), reopened.Height())

	out, err := reopened.Query(res.ContractAddress, []byte(`{}`))
	require.Nil(s.T(), err)
	require.Contains(s.T(), string(out), `"count":"5"`)
}
