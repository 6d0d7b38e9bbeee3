package deploy

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/sirupsen/logrus"

	"github.com/warp-contracts/minter/src/cw20"
	"github.com/warp-contracts/minter/src/cw721"
	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/config"
	"github.com/warp-contracts/minter/src/utils/host"
	"github.com/warp-contracts/minter/src/utils/logger"
)

// Balance given to the deployer when no initial balances are configured
const DefaultDeployerBalance = 150000

// Addresses and code ids of the deployed contracts
type Deployment struct {
	Deployer sdk.AccAddress `json:"deployer"`

	Cw20CodeID   uint64 `json:"cw20_code_id"`
	Cw721CodeID  uint64 `json:"cw721_code_id"`
	MinterCodeID uint64 `json:"minter_code_id"`

	Token      sdk.AccAddress `json:"token"`
	Minter     sdk.AccAddress `json:"minter"`
	Collection sdk.AccAddress `json:"collection"`
}

// Registers the code. Order is fixed, code ids have to be the same after a restart.
// Code already registered under the same name is reused.
func StoreCodes(h *host.Host) (cw20CodeID, cw721CodeID, minterCodeID uint64) {
	stored := make(map[string]uint64)
	for _, code := range h.Codes() {
		stored[code.Name] = code.ID
	}

	store := func(name string, factory host.Factory) uint64 {
		id, ok := stored[name]
		if ok {
			return id
		}
		return h.StoreCode(name, factory)
	}

	cw20CodeID = store(cw20.CodeName, cw20.New)
	cw721CodeID = store(cw721.CodeName, cw721.New)
	minterCodeID = store(minter.ContractName, minter.New)
	return
}

// Stores code and instantiates the token and the minter. Contracts already present under their labels are reused.
func Deploy(config *config.Config, h *host.Host) (self *Deployment, err error) {
	log := logger.NewSublogger("deploy")

	self = new(Deployment)
	self.Deployer = host.AccountAddress(config.Minter.Deployer)
	self.Cw20CodeID, self.Cw721CodeID, self.MinterCodeID = StoreCodes(h)

	self.Token, err = instantiateOnce(h, log, config.Token.Label, func() (*host.TxResult, error) {
		msg, err := json.Marshal(tokenInstantiateMsg(config, self.Deployer))
		if err != nil {
			return nil, err
		}
		return h.Instantiate(self.Deployer, self.Deployer, self.Cw20CodeID, config.Token.Label, msg, nil)
	})
	if err != nil {
		return nil, err
	}

	self.Minter, err = instantiateOnce(h, log, config.Minter.Label, func() (*host.TxResult, error) {
		msg, err := json.Marshal(minter.InstantiateMsg{
			NativeDenom: config.Minter.NativeDenom,
			NativePrice: math.NewIntFromUint64(config.Minter.NativePrice),
			Cw20Address: self.Token.String(),
			Cw20Price:   math.NewIntFromUint64(config.Minter.TokenPrice),
			NftCodeID:   self.Cw721CodeID,
			NftName:     config.Collection.Name,
			NftSymbol:   config.Collection.Symbol,
		})
		if err != nil {
			return nil, err
		}
		return h.Instantiate(self.Deployer, self.Deployer, self.MinterCodeID, config.Minter.Label, msg, nil)
	})
	if err != nil {
		return nil, err
	}

	state, err := NewClient(h, self).State()
	if err != nil {
		return nil, err
	}
	self.Collection, err = host.ParseAddress(state.NftAddress)
	if err != nil {
		return nil, err
	}

	log.WithField("token", self.Token.String()).
		WithField("minter", self.Minter.String()).
		WithField("collection", self.Collection.String()).
		Info("Contracts ready")
	return
}

func instantiateOnce(h *host.Host, log *logrus.Entry, label string, instantiate func() (*host.TxResult, error)) (sdk.AccAddress, error) {
	addr, err := h.ContractByLabel(label)
	if err == nil {
		log.WithField("label", label).WithField("address", addr.String()).Info("Contract already deployed")
		return addr, nil
	}
	if !errors.Is(err, host.ErrUnknownContract) {
		return nil, err
	}

	result, err := instantiate()
	if err != nil {
		log.WithError(err).WithField("label", label).Error("Failed to instantiate contract")
		return nil, err
	}
	log.WithField("label", label).WithField("address", result.ContractAddress.String()).Info("Contract instantiated")
	return result.ContractAddress, nil
}

func tokenInstantiateMsg(config *config.Config, deployer sdk.AccAddress) cw20.InstantiateMsg {
	msg := cw20.InstantiateMsg{
		Name:     config.Token.Name,
		Symbol:   config.Token.Symbol,
		Decimals: config.Token.Decimals,
		Mint:     &cw20.MinterResponse{Minter: deployer.String()},
	}

	if len(config.Token.InitialBalances) == 0 {
		msg.InitialBalances = []cw20.Coin{{Address: deployer.String(), Amount: math.NewInt(DefaultDeployerBalance)}}
		return msg
	}

	// Sorted for a deterministic instantiate message
	for _, name := range slices.Sorted(maps.Keys(config.Token.InitialBalances)) {
		msg.InitialBalances = append(msg.InitialBalances, cw20.Coin{
			Address: host.AccountAddress(name).String(),
			Amount:  math.NewIntFromUint64(config.Token.InitialBalances[name]),
		})
	}
	return msg
}
