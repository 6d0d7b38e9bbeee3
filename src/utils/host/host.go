package host

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/warp-contracts/minter/src/utils/config"
	"github.com/warp-contracts/minter/src/utils/logger"
)

const (
	StoreKeyBank = "bank"
	StoreKeyWasm = "wasm"
)

var (
	InstanceSeqPrefix = collections.NewPrefix(0)
	ContractsPrefix   = collections.NewPrefix(1)
	LabelsPrefix      = collections.NewPrefix(2)
)

// Runs contracts on top of a committing multistore.
// Every transaction works on its own cache branch that gets written only if nothing failed.
type Host struct {
	log *logrus.Entry

	// Transactions and queries are serialized
	mtx sync.Mutex

	chainID string
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	bankKey *storetypes.KVStoreKey
	wasmKey *storetypes.KVStoreKey

	bank        *Bank
	schema      collections.Schema
	instanceSeq collections.Sequence
	contracts   collections.Map[sdk.AccAddress, ContractMeta]
	labels      collections.Map[string, []byte]

	// Registered code, ids are assigned in the registration order
	codes map[uint64]*Code

	now      func() time.Time
	onCommit []func(result *TxResult)
	onRevert []func(id string, err error)
}

// Opens the state database configured in the Host section
func New(config *config.Config) (self *Host, err error) {
	var db dbm.DB
	if config.Host.DBBackend == string(dbm.MemDBBackend) {
		db = dbm.NewMemDB()
	} else {
		db, err = dbm.NewDB(config.Host.DBName, dbm.BackendType(config.Host.DBBackend), config.Host.DBDir)
		if err != nil {
			return
		}
	}
	return NewWithDB(db, config.Host.ChainID)
}

func NewWithDB(db dbm.DB, chainID string) (self *Host, err error) {
	self = new(Host)
	self.log = logger.NewSublogger("host")
	self.chainID = chainID
	self.db = db
	self.codes = make(map[uint64]*Code)
	self.now = time.Now

	self.bankKey = storetypes.NewKVStoreKey(StoreKeyBank)
	self.wasmKey = storetypes.NewKVStoreKey(StoreKeyWasm)

	self.cms = store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	self.cms.MountStoreWithDB(self.bankKey, storetypes.StoreTypeIAVL, nil)
	self.cms.MountStoreWithDB(self.wasmKey, storetypes.StoreTypeIAVL, nil)
	err = self.cms.LoadLatestVersion()
	if err != nil {
		return nil, err
	}

	self.bank, err = NewBank(runtime.NewKVStoreService(self.bankKey))
	if err != nil {
		return nil, err
	}

	sb := collections.NewSchemaBuilder(runtime.NewKVStoreService(self.wasmKey))
	self.instanceSeq = collections.NewSequence(sb, InstanceSeqPrefix, "instance_seq")
	self.contracts = collections.NewMap(sb, ContractsPrefix, "contracts", sdk.AccAddressKey, JSONValue[ContractMeta]())
	self.labels = collections.NewMap(sb, LabelsPrefix, "labels", collections.StringKey, collections.BytesValue)
	self.schema, err = sb.Build()
	if err != nil {
		return nil, err
	}

	self.log.WithField("height", self.cms.LastCommitID().Version).Info("State loaded")
	return
}

// Callback run after every committed transaction
func (self *Host) WithOnCommit(f func(result *TxResult)) *Host {
	self.onCommit = append(self.onCommit, f)
	return self
}

// Callback run after every reverted transaction
func (self *Host) WithOnRevert(f func(id string, err error)) *Host {
	self.onRevert = append(self.onRevert, f)
	return self
}

// Overrides the clock used for block time
func (self *Host) WithClock(now func() time.Time) *Host {
	self.now = now
	return self
}

func (self *Host) Close() error {
	return self.db.Close()
}

// Registers contract code, returns its code id
func (self *Host) StoreCode(name string, factory Factory) uint64 {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	id := uint64(len(self.codes) + 1)
	self.codes[id] = &Code{ID: id, Name: name, factory: factory}
	self.log.WithField("code_id", id).WithField("name", name).Debug("Code stored")
	return id
}

// All registered code, sorted by id
func (self *Host) Codes() (out []Code) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for _, code := range self.codes {
		out = append(out, *code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return
}

// Height of the last committed transaction
func (self *Host) Height() int64 {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.cms.LastCommitID().Version
}

func (self *Host) AppHash() []byte {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.cms.LastCommitID().Hash
}

func (self *Host) Instantiate(sender, admin sdk.AccAddress, codeID uint64, label string, msg []byte, funds sdk.Coins) (*TxResult, error) {
	return self.transact(func(ctx sdk.Context, result *TxResult) (err error) {
		result.ContractAddress, result.Data, err = self.instantiate(ctx, sender, admin, codeID, label, msg, funds)
		return
	})
}

func (self *Host) Execute(sender, contract sdk.AccAddress, msg []byte, funds sdk.Coins) (*TxResult, error) {
	return self.transact(func(ctx sdk.Context, result *TxResult) (err error) {
		result.ContractAddress = contract
		result.Data, err = self.execute(ctx, sender, contract, msg, funds)
		return
	})
}

// Switches the contract to another code and runs its migrate entry point. Only the admin may migrate.
func (self *Host) Migrate(sender, contract sdk.AccAddress, codeID uint64, msg []byte) (*TxResult, error) {
	return self.transact(func(ctx sdk.Context, result *TxResult) (err error) {
		result.ContractAddress = contract
		result.Data, err = self.migrate(ctx, sender, contract, codeID, msg)
		return
	})
}

// Gives coins to an account
func (self *Host) Fund(addr sdk.AccAddress, coins sdk.Coins) (*TxResult, error) {
	return self.transact(func(ctx sdk.Context, result *TxResult) (err error) {
		err = self.bank.Mint(ctx, addr, coins)
		if err != nil {
			return
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(EventTypeTransfer,
			sdk.NewAttribute(AttributeKeyRecipient, addr.String()),
			sdk.NewAttribute(AttributeKeyAmount, coins.String()),
		))
		return
	})
}

// Runs a query against the last committed state
func (self *Host) Query(contract sdk.AccAddress, msg []byte) (out []byte, err error) {
	err = self.view(func(ctx sdk.Context) (err error) {
		out, err = self.query(ctx, contract, msg)
		return
	})
	return
}

func (self *Host) Balance(addr sdk.AccAddress, denom string) (out math.Int, err error) {
	err = self.view(func(ctx sdk.Context) (err error) {
		out, err = self.bank.Balance(ctx, addr, denom)
		return
	})
	return
}

func (self *Host) AllBalances(addr sdk.AccAddress) (out sdk.Coins, err error) {
	err = self.view(func(ctx sdk.Context) (err error) {
		out, err = self.bank.AllBalances(ctx, addr)
		return
	})
	return
}

// Address of the contract instantiated with the label
func (self *Host) ContractByLabel(label string) (out sdk.AccAddress, err error) {
	err = self.view(func(ctx sdk.Context) error {
		raw, err := self.labels.Get(ctx, label)
		if errorsmod.IsOf(err, collections.ErrNotFound) {
			return errorsmod.Wrapf(ErrUnknownContract, "label %s", label)
		}
		out = sdk.AccAddress(raw)
		return err
	})
	return
}

func (self *Host) ContractMeta(addr sdk.AccAddress) (out ContractMeta, err error) {
	err = self.view(func(ctx sdk.Context) (err error) {
		out, err = self.meta(ctx, addr)
		return
	})
	return
}

// Runs f in a fresh transaction. State is committed only if f succeeds.
func (self *Host) transact(f func(ctx sdk.Context, result *TxResult) error) (result *TxResult, err error) {
	result, err = self.run(f)
	if err != nil {
		self.log.WithError(err).WithField("tx", result.ID).Debug("Transaction reverted")
		for _, cb := range self.onRevert {
			cb(result.ID, err)
		}
		return nil, err
	}

	self.log.WithField("tx", result.ID).WithField("height", result.Height).Debug("Transaction committed")
	for _, cb := range self.onCommit {
		cb(result)
	}
	return
}

func (self *Host) run(f func(ctx sdk.Context, result *TxResult) error) (result *TxResult, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	result = &TxResult{
		ID:     xid.New().String(),
		Height: self.cms.LastCommitID().Version + 1,
		Time:   self.now().UTC(),
	}

	branch := self.cms.CacheMultiStore()
	ctx := sdk.NewContext(branch, cmtproto.Header{
		ChainID: self.chainID,
		Height:  result.Height,
		Time:    result.Time,
	}, false, log.NewNopLogger()).WithValue(txIDKey{}, result.ID)

	err = protect(func() error { return f(ctx, result) })
	if err != nil {
		return
	}

	branch.Write()
	commitID := self.cms.Commit()

	result.AppHash = commitID.Hash
	result.Events = ctx.EventManager().Events()
	return
}

// Read only access, the cache branch is never written
func (self *Host) view(f func(ctx sdk.Context) error) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	ctx := sdk.NewContext(self.cms.CacheMultiStore(), cmtproto.Header{
		ChainID: self.chainID,
		Height:  self.cms.LastCommitID().Version,
		Time:    self.now().UTC(),
	}, false, log.NewNopLogger())

	return protect(func() error { return f(ctx) })
}

type txIDKey struct{}

// Converts a panic into an error
func protect(f func() error) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		switch p := p.(type) {
		case error:
			err = errorsmod.Wrap(ErrContractPanic, p.Error())
		default:
			err = errorsmod.Wrap(ErrContractPanic, fmt.Sprintf("%v", p))
		}
	}()
	return f()
}

func (self *Host) meta(ctx sdk.Context, addr sdk.AccAddress) (out ContractMeta, err error) {
	out, err = self.contracts.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		err = errorsmod.Wrapf(ErrUnknownContract, "address %s", addr)
	}
	return
}

// Binds the contract code to the storage of the address
func (self *Host) instance(ctx sdk.Context, addr sdk.AccAddress) (Contract, ContractMeta, error) {
	meta, err := self.meta(ctx, addr)
	if err != nil {
		return nil, meta, err
	}
	code, ok := self.codes[meta.CodeID]
	if !ok {
		return nil, meta, errorsmod.Wrapf(ErrUnknownCode, "code %d of %s", meta.CodeID, addr)
	}
	return code.factory(newContractStoreService(self.wasmKey, addr)), meta, nil
}
