package minter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/warp-contracts/minter/src/cw20"
	"github.com/warp-contracts/minter/src/cw721"
	"github.com/warp-contracts/minter/src/utils/host"
)

var errBroken = errorsmod.Register("broken", 2, "collection is broken")

// Collection that can be created but refuses every mint
type brokenCollection struct{}

func (brokenCollection) Instantiate(context.Context, host.Env, host.MessageInfo, []byte) (*host.Response, error) {
	return host.NewResponse(), nil
}

func (brokenCollection) Execute(context.Context, host.Env, host.MessageInfo, []byte) (*host.Response, error) {
	return nil, errBroken
}

func (brokenCollection) Query(context.Context, host.Env, []byte) ([]byte, error) {
	return nil, errBroken
}

// Forwards one execute message several times in a single transaction
type batcher struct{}

type batchMsg struct {
	Target string          `json:"target"`
	Msg    json.RawMessage `json:"msg"`
	Funds  sdk.Coins       `json:"funds"`
	Times  int             `json:"times"`
}

func (batcher) Instantiate(context.Context, host.Env, host.MessageInfo, []byte) (*host.Response, error) {
	return host.NewResponse(), nil
}

func (batcher) Execute(ctx context.Context, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg batchMsg
	err := json.Unmarshal(raw, &msg)
	if err != nil {
		return nil, err
	}
	target, err := host.ParseAddress(msg.Target)
	if err != nil {
		return nil, err
	}

	res := host.NewResponse()
	for i := 0; i < msg.Times; i++ {
		execute, err := host.NewExecuteMsg(target, msg.Msg, msg.Funds)
		if err != nil {
			return nil, err
		}
		res.AddMessage(execute)
	}
	return res, nil
}

func (batcher) Query(context.Context, host.Env, []byte) ([]byte, error) {
	return []byte(`{}`), nil
}

func TestContractTestSuite(t *testing.T) {
	suite.Run(t, new(ContractTestSuite))
}

type ContractTestSuite struct {
	suite.Suite
	host *host.Host

	cw20CodeID   uint64
	cw721CodeID  uint64
	minterCodeID uint64
	brokenCodeID uint64
	batchCodeID  uint64

	token      sdk.AccAddress
	minter     sdk.AccAddress
	collection sdk.AccAddress
	batcher    sdk.AccAddress

	deployer sdk.AccAddress
	alice    sdk.AccAddress
	mallory  sdk.AccAddress
}

func (s *ContractTestSuite) SetupTest() {
	var err error
	s.host, err = host.NewWithDB(dbm.NewMemDB(), "test-1")
	require.Nil(s.T(), err)

	s.cw20CodeID = s.host.StoreCode(cw20.CodeName, cw20.New)
	s.cw721CodeID = s.host.StoreCode(cw721.CodeName, cw721.New)
	s.minterCodeID = s.host.StoreCode(ContractName, New)
	s.brokenCodeID = s.host.StoreCode("broken", func(corestore.KVStoreService) host.Contract { return brokenCollection{} })
	s.batchCodeID = s.host.StoreCode("batcher", func(corestore.KVStoreService) host.Contract { return batcher{} })

	s.deployer = host.AccountAddress("deployer")
	s.alice = host.AccountAddress("alice")
	s.mallory = host.AccountAddress("mallory")

	msg, err := json.Marshal(cw20.InstantiateMsg{
		Name:            "cw20-test",
		Symbol:          "CWORCH",
		Decimals:        6,
		InitialBalances: []cw20.Coin{{Address: s.alice.String(), Amount: math.NewInt(150_000)}},
		Mint:            &cw20.MinterResponse{Minter: s.deployer.String()},
	})
	require.Nil(s.T(), err)
	res, err := s.host.Instantiate(s.deployer, nil, s.cw20CodeID, "cw20", msg, nil)
	require.Nil(s.T(), err)
	s.token = res.ContractAddress

	s.minter = s.instantiate("minter", s.cw721CodeID)
	s.collection, err = host.ParseAddress(s.state().NftAddress)
	require.Nil(s.T(), err)

	res, err = s.host.Instantiate(s.deployer, nil, s.batchCodeID, "batcher", []byte(`{}`), nil)
	require.Nil(s.T(), err)
	s.batcher = res.ContractAddress

	_, err = s.host.Fund(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 1000), sdk.NewInt64Coin("uatom", 1000)))
	require.Nil(s.T(), err)
}

func (s *ContractTestSuite) TearDownTest() {
	require.Nil(s.T(), s.host.Close())
}

func (s *ContractTestSuite) instantiateMsg(nativePrice, cw20Price int64, codeID uint64) []byte {
	msg, err := json.Marshal(InstantiateMsg{
		NativeDenom: "uusd",
		NativePrice: math.NewInt(nativePrice),
		Cw20Address: s.token.String(),
		Cw20Price:   math.NewInt(cw20Price),
		NftCodeID:   codeID,
	})
	require.Nil(s.T(), err)
	return msg
}

func (s *ContractTestSuite) instantiate(label string, nftCodeID uint64) sdk.AccAddress {
	res, err := s.host.Instantiate(s.deployer, s.deployer, s.minterCodeID, label, s.instantiateMsg(200, 1500, nftCodeID), nil)
	require.Nil(s.T(), err)
	return res.ContractAddress
}

func (s *ContractTestSuite) stateOf(minter sdk.AccAddress) (config Config) {
	out, err := s.host.Query(minter, []byte(`{"state":{}}`))
	require.Nil(s.T(), err)
	require.Nil(s.T(), json.Unmarshal(out, &config))
	return
}

func (s *ContractTestSuite) state() Config {
	return s.stateOf(s.minter)
}

func (s *ContractTestSuite) numTokens() uint64 {
	out, err := s.host.Query(s.collection, []byte(`{"num_tokens":{}}`))
	require.Nil(s.T(), err)

	var res cw721.NumTokensResponse
	require.Nil(s.T(), json.Unmarshal(out, &res))
	return res.Count
}

func (s *ContractTestSuite) tokensOf(owner sdk.AccAddress) []string {
	msg, err := json.Marshal(cw721.QueryMsg{Tokens: &cw721.TokensQuery{Owner: owner.String()}})
	require.Nil(s.T(), err)
	out, err := s.host.Query(s.collection, msg)
	require.Nil(s.T(), err)

	var res cw721.TokensResponse
	require.Nil(s.T(), json.Unmarshal(out, &res))
	return res.Tokens
}

func (s *ContractTestSuite) cw20Balance(addr sdk.AccAddress) math.Int {
	msg, err := json.Marshal(cw20.QueryMsg{Balance: &cw20.BalanceQuery{Address: addr.String()}})
	require.Nil(s.T(), err)
	out, err := s.host.Query(s.token, msg)
	require.Nil(s.T(), err)

	var res cw20.BalanceResponse
	require.Nil(s.T(), json.Unmarshal(out, &res))
	return res.Balance
}

func (s *ContractTestSuite) nativeBalance(addr sdk.AccAddress, denom string) math.Int {
	balance, err := s.host.Balance(addr, denom)
	require.Nil(s.T(), err)
	return balance
}

func (s *ContractTestSuite) mint(sender sdk.AccAddress, funds sdk.Coins) (*host.TxResult, error) {
	return s.host.Execute(sender, s.minter, []byte(`{"mint":{}}`), funds)
}

func (s *ContractTestSuite) send(sender sdk.AccAddress, amount int64, payload []byte) (*host.TxResult, error) {
	msg, err := json.Marshal(cw20.ExecuteMsg{Send: &cw20.SendMsg{
		Contract: s.minter.String(),
		Amount:   math.NewInt(amount),
		Msg:      payload,
	}})
	require.Nil(s.T(), err)
	return s.host.Execute(sender, s.token, msg, nil)
}

func (s *ContractTestSuite) receive(sender sdk.AccAddress, amount int64) error {
	msg, err := json.Marshal(ExecuteMsg{Receive: &cw20.ReceiveMsg{
		Sender: sender.String(),
		Amount: math.NewInt(amount),
		Msg:    MintPayload(),
	}})
	require.Nil(s.T(), err)
	_, err = s.host.Execute(sender, s.minter, msg, nil)
	return err
}

func (s *ContractTestSuite) TestInstantiate() {
	config := s.state()
	require.Equal(s.T(), "uusd", config.NativeDenom)
	require.Equal(s.T(), math.NewInt(200), config.NativePrice)
	require.Equal(s.T(), s.token.String(), config.Cw20Address)
	require.Equal(s.T(), math.NewInt(1500), config.Cw20Price)
	require.Equal(s.T(), s.cw721CodeID, config.NftCodeID)
	require.NotEmpty(s.T(), config.NftAddress)

	// The minter is the only account allowed to mint in the collection
	out, err := s.host.Query(s.collection, []byte(`{"minter":{}}`))
	require.Nil(s.T(), err)
	require.Contains(s.T(), string(out), s.minter.String())

	out, err = s.host.Query(s.minter, []byte(`{"contract_info":{}}`))
	require.Nil(s.T(), err)
	var version VersionInfo
	require.Nil(s.T(), json.Unmarshal(out, &version))
	require.Equal(s.T(), VersionInfo{Contract: ContractName, Version: Version}, version)

	meta, err := s.host.ContractMeta(s.collection)
	require.Nil(s.T(), err)
	require.Equal(s.T(), s.minter.String(), meta.Creator)
	require.Equal(s.T(), s.cw721CodeID, meta.CodeID)
}

func (s *ContractTestSuite) TestInstantiateInvalidConfiguration() {
	for _, msg := range [][]byte{
		s.instantiateMsg(0, 1500, s.cw721CodeID),
		s.instantiateMsg(200, 0, s.cw721CodeID),
		s.instantiateMsg(-1, 1500, s.cw721CodeID),
		s.instantiateMsg(200, 1500, 0),
		[]byte(`{"native_denom":"uusd","native_price":"200","cw20_address":"nope","cw20_price":"1500","nft_code_id":2}`),
		[]byte(`{"native_denom":"","native_price":"200","cw20_address":"` + s.token.String() + `","cw20_price":"1500","nft_code_id":2}`),
	} {
		_, err := s.host.Instantiate(s.deployer, nil, s.minterCodeID, "invalid", msg, nil)
		require.True(s.T(), errors.Is(err, ErrInvalidConfiguration), string(msg))
	}

	// Nothing was left behind by the failed attempts
	_, err := s.host.ContractByLabel("invalid")
	require.True(s.T(), errors.Is(err, host.ErrUnknownContract))
}

func (s *ContractTestSuite) TestInstantiateUnknownCollectionCode() {
	_, err := s.host.Instantiate(s.deployer, nil, s.minterCodeID, "other", s.instantiateMsg(200, 1500, 42), nil)
	require.True(s.T(), errors.Is(err, host.ErrUnknownCode))
}

func (s *ContractTestSuite) TestMintWithNativeCoins() {
	res, err := s.mint(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.Nil(s.T(), err)

	require.Equal(s.T(), uint64(1), s.numTokens())
	require.Equal(s.T(), []string{"1"}, s.tokensOf(s.alice))
	require.Equal(s.T(), math.NewInt(200), s.nativeBalance(s.minter, "uusd"))
	require.Equal(s.T(), math.NewInt(800), s.nativeBalance(s.alice, "uusd"))

	tokenID, ok := res.Attribute(host.EventTypeWasmPrefix+EventTypeMinted, "token_id")
	require.True(s.T(), ok)
	require.Equal(s.T(), "1", tokenID)

	owner, _ := res.Attribute(host.EventTypeWasmPrefix+EventTypeMinted, "owner")
	require.Equal(s.T(), s.alice.String(), owner)

	payment, _ := res.Attribute(host.EventTypeWasmPrefix+EventTypeMinted, "payment")
	require.Equal(s.T(), PaymentNative, payment)
}

func (s *ContractTestSuite) TestMintWithCw20() {
	res, err := s.send(s.alice, 1500, MintPayload())
	require.Nil(s.T(), err)

	// The token goes to the payer, not to the cw20 contract
	require.Equal(s.T(), []string{"1"}, s.tokensOf(s.alice))
	require.Empty(s.T(), s.tokensOf(s.token))
	require.Equal(s.T(), math.NewInt(1500), s.cw20Balance(s.minter))
	require.Equal(s.T(), math.NewInt(148_500), s.cw20Balance(s.alice))

	payment, _ := res.Attribute(host.EventTypeWasmPrefix+EventTypeMinted, "payment")
	require.Equal(s.T(), PaymentCw20, payment)
}

func (s *ContractTestSuite) TestScenario() {
	_, err := s.mint(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(1), s.numTokens())

	_, err = s.send(s.alice, 1500, MintPayload())
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), s.numTokens())
	require.Equal(s.T(), []string{"1", "2"}, s.tokensOf(s.alice))

	_, err = s.mint(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 199)))
	require.True(s.T(), errors.Is(err, ErrPaymentMismatch))
	require.Equal(s.T(), uint64(2), s.numTokens())

	err = s.receive(s.mallory, 1500)
	require.True(s.T(), errors.Is(err, ErrUnauthorized))
	require.Equal(s.T(), uint64(2), s.numTokens())
}

func (s *ContractTestSuite) TestWrongNativePayment() {
	for _, funds := range []sdk.Coins{
		nil,
		sdk.NewCoins(sdk.NewInt64Coin("uusd", 199)),
		sdk.NewCoins(sdk.NewInt64Coin("uusd", 201)),
		sdk.NewCoins(sdk.NewInt64Coin("uatom", 200)),
		sdk.NewCoins(sdk.NewInt64Coin("uusd", 200), sdk.NewInt64Coin("uatom", 1)),
	} {
		_, err := s.mint(s.alice, funds)
		require.True(s.T(), errors.Is(err, ErrPaymentMismatch), funds.String())
	}

	// Zero amount coins never reach the contract
	_, err := s.mint(s.alice, sdk.Coins{sdk.NewInt64Coin("uusd", 0)})
	require.True(s.T(), errors.Is(err, host.ErrInvalidFunds))

	require.Equal(s.T(), uint64(0), s.numTokens())
	require.Equal(s.T(), math.NewInt(1000), s.nativeBalance(s.alice, "uusd"))
	require.Equal(s.T(), math.NewInt(1000), s.nativeBalance(s.alice, "uatom"))
	require.True(s.T(), s.nativeBalance(s.minter, "uusd").IsZero())
}

func (s *ContractTestSuite) TestWrongCw20Amount() {
	for _, amount := range []int64{1499, 1501} {
		_, err := s.send(s.alice, amount, MintPayload())
		require.True(s.T(), errors.Is(err, ErrPaymentMismatch))
	}

	// The transfer into the minter is reverted together with the mint
	require.Equal(s.T(), math.NewInt(150_000), s.cw20Balance(s.alice))
	require.True(s.T(), s.cw20Balance(s.minter).IsZero())
	require.Equal(s.T(), uint64(0), s.numTokens())
}

func (s *ContractTestSuite) TestCw20MalformedPayload() {
	for _, payload := range [][]byte{
		[]byte(`{"burn":{}}`),
		[]byte(`not json`),
		[]byte(`{}`),
		nil,
	} {
		_, err := s.send(s.alice, 1500, payload)
		require.True(s.T(), errors.Is(err, ErrDecode), string(payload))
	}
	require.Equal(s.T(), math.NewInt(150_000), s.cw20Balance(s.alice))
	require.Equal(s.T(), uint64(0), s.numTokens())
}

func (s *ContractTestSuite) TestSpoofedNotification() {
	// Rejected regardless of amount or payload
	for _, amount := range []int64{1500, 1, 0} {
		err := s.receive(s.mallory, amount)
		require.True(s.T(), errors.Is(err, ErrUnauthorized))
	}

	for _, msg := range []string{
		`{"receive":{"sender":"x","amount":"1500","msg":"e30="}}`,
		`{"receive":{"sender":"x","amount":"abc","msg":"e30="}}`,
		`{"receive":{"sender":"x","amount":"1500","msg":"!!notbase64"}}`,
		`{"receive":{"sender":"x","amount":"1500","msg":"e30=","extra":1}}`,
	} {
		_, err := s.host.Execute(s.mallory, s.minter, []byte(msg), nil)
		require.True(s.T(), errors.Is(err, ErrUnauthorized), msg)
	}
	require.Equal(s.T(), uint64(0), s.numTokens())
}

func (s *ContractTestSuite) TestMalformedExecute() {
	for _, msg := range []string{
		`{}`,
		`{"mint":{},"receive":{}}`,
		`{"mint":null}`,
		`{"mint":{"extra":1}}`,
		`{"burn":{}}`,
	} {
		_, err := s.host.Execute(s.alice, s.minter, []byte(msg), sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
		require.True(s.T(), errors.Is(err, ErrDecode), msg)
	}
	require.Equal(s.T(), math.NewInt(1000), s.nativeBalance(s.alice, "uusd"))
}

func (s *ContractTestSuite) batch(times int) error {
	msg, err := json.Marshal(batchMsg{
		Target: s.minter.String(),
		Msg:    MintPayload(),
		Funds:  sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)),
		Times:  times,
	})
	require.Nil(s.T(), err)
	_, err = s.host.Execute(s.alice, s.batcher, msg, sdk.NewCoins(sdk.NewInt64Coin("uusd", 200*int64(times))))
	return err
}

func (s *ContractTestSuite) TestOneMintPerBlock() {
	// Second mint of the transaction is rejected, the first one goes with it
	err := s.batch(2)
	require.True(s.T(), errors.Is(err, ErrMintedThisBlock))
	require.Equal(s.T(), uint64(0), s.numTokens())
	require.Equal(s.T(), math.NewInt(1000), s.nativeBalance(s.alice, "uusd"))

	err = s.batch(1)
	require.Nil(s.T(), err)
	require.Equal(s.T(), []string{"1"}, s.tokensOf(s.batcher))

	// Next block
	_, err = s.mint(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.Nil(s.T(), err)
	require.Equal(s.T(), []string{"2"}, s.tokensOf(s.alice))
}

func (s *ContractTestSuite) TestCollectionAddressStable() {
	before := s.state().NftAddress
	for i := 0; i < 3; i++ {
		_, err := s.mint(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
		require.Nil(s.T(), err)
		require.Equal(s.T(), before, s.state().NftAddress)
	}
	require.Equal(s.T(), []string{"1", "2", "3"}, s.tokensOf(s.alice))
}

func (s *ContractTestSuite) TestSubcallFailureRevertsPayment() {
	minter := s.instantiate("broken-minter", s.brokenCodeID)
	require.NotEmpty(s.T(), s.stateOf(minter).NftAddress)

	_, err := s.host.Execute(s.alice, minter, []byte(`{"mint":{}}`), sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.True(s.T(), errors.Is(err, ErrSubcallFailure))

	// Payer is never charged without a token
	require.Equal(s.T(), math.NewInt(1000), s.nativeBalance(s.alice, "uusd"))
	require.True(s.T(), s.nativeBalance(minter, "uusd").IsZero())

	// The pending record didn't survive either, next attempt fails the same way
	_, err = s.host.Execute(s.alice, minter, []byte(`{"mint":{}}`), sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.True(s.T(), errors.Is(err, ErrSubcallFailure))
}

func (s *ContractTestSuite) TestUpdateConfigRejected() {
	_, err := s.host.Execute(s.deployer, s.minter, []byte(`{"update_config":{"native_denom":"uatom"}}`), nil)
	require.True(s.T(), errors.Is(err, ErrUnauthorized))
	require.Equal(s.T(), "uusd", s.state().NativeDenom)
}

func (s *ContractTestSuite) TestMigrateKeepsConfiguration() {
	_, err := s.mint(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.Nil(s.T(), err)
	before := s.state()

	_, err = s.host.Migrate(s.alice, s.minter, s.minterCodeID, []byte(`{}`))
	require.True(s.T(), errors.Is(err, host.ErrUnauthorized))

	res, err := s.host.Migrate(s.deployer, s.minter, s.minterCodeID, []byte(`{}`))
	require.Nil(s.T(), err)

	to, _ := res.Attribute(host.EventTypeWasm, "to_version")
	require.Equal(s.T(), Version, to)
	require.Equal(s.T(), before, s.state())

	// Minting continues with the next token id
	_, err = s.mint(s.alice, sdk.NewCoins(sdk.NewInt64Coin("uusd", 200)))
	require.Nil(s.T(), err)
	require.Equal(s.T(), []string{"1", "2"}, s.tokensOf(s.alice))
}
