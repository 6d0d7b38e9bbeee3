package scenario

import (
	"encoding/json"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/sirupsen/logrus"

	"github.com/warp-contracts/minter/src/cw20"
	"github.com/warp-contracts/minter/src/deploy"
	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/config"
	"github.com/warp-contracts/minter/src/utils/host"
	"github.com/warp-contracts/minter/src/utils/logger"
)

var ErrUnexpected = errors.New("unexpected outcome")

type Step struct {
	Name string
	Run  func() error
}

// Deploys on a fresh in-memory host and walks through successful and rejected mints
type Scenario struct {
	log    *logrus.Entry
	config *config.Config

	host   *host.Host
	client *deploy.Client

	buyer   sdk.AccAddress
	mallory sdk.AccAddress
}

func New(config *config.Config) (self *Scenario, err error) {
	self = new(Scenario)
	self.log = logger.NewSublogger("scenario")
	self.config = config
	self.buyer = host.AccountAddress("buyer")
	self.mallory = host.AccountAddress("mallory")

	self.host, err = host.NewWithDB(dbm.NewMemDB(), config.Host.ChainID)
	if err != nil {
		return
	}

	deployment, err := deploy.Deploy(config, self.host)
	if err != nil {
		return
	}
	self.client = deploy.NewClient(self.host, deployment)
	return
}

func (self *Scenario) Steps() []Step {
	return []Step{
		{Name: "fund buyer", Run: self.fundBuyer},
		{Name: "mint paid with native coins", Run: self.mintNative},
		{Name: "mint paid with the token", Run: self.mintWithToken},
		{Name: "native payment off by one", Run: self.wrongPayment},
		{Name: "notification not sent by the token", Run: self.spoofedNotification},
		{Name: "collection address unchanged", Run: self.collectionStable},
	}
}

// Runs all steps, stops on the first failure
func (self *Scenario) Run() (err error) {
	defer self.host.Close()

	for i, step := range self.Steps() {
		log := self.log.WithField("step", i+1).WithField("name", step.Name)
		err = step.Run()
		if err != nil {
			log.WithError(err).Error("Step failed")
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
		log.Info("Step passed")
	}
	return nil
}

func (self *Scenario) price() sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(self.config.Minter.NativeDenom, math.NewIntFromUint64(self.config.Minter.NativePrice)))
}

func (self *Scenario) expectTokens(expected uint64) error {
	count, err := self.client.NumTokens()
	if err != nil {
		return err
	}
	if count != expected {
		return fmt.Errorf("%w: %d tokens, expected %d", ErrUnexpected, count, expected)
	}
	return nil
}

func (self *Scenario) expectRejected(err, expected error) error {
	if err == nil {
		return fmt.Errorf("%w: transaction accepted", ErrUnexpected)
	}
	if !errors.Is(err, expected) {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	self.log.WithError(err).Debug("Rejected as expected")
	return nil
}

func (self *Scenario) fundBuyer() error {
	_, err := self.client.Fund(self.buyer, self.price())
	return err
}

func (self *Scenario) mintNative() error {
	_, err := self.client.Mint(self.buyer, self.price())
	if err != nil {
		return err
	}
	return self.expectTokens(1)
}

func (self *Scenario) mintWithToken() error {
	deployer := self.client.Deployment().Deployer
	_, err := self.client.MintWithToken(deployer, math.NewIntFromUint64(self.config.Minter.TokenPrice))
	if err != nil {
		return err
	}
	return self.expectTokens(2)
}

func (self *Scenario) wrongPayment() error {
	funds := sdk.NewCoins(sdk.NewCoin(self.config.Minter.NativeDenom, math.NewIntFromUint64(self.config.Minter.NativePrice-1)))
	_, err := self.client.Fund(self.buyer, funds)
	if err != nil {
		return err
	}

	_, err = self.client.Mint(self.buyer, funds)
	err = self.expectRejected(err, minter.ErrPaymentMismatch)
	if err != nil {
		return err
	}

	balance, err := self.host.Balance(self.buyer, self.config.Minter.NativeDenom)
	if err != nil {
		return err
	}
	if !balance.Equal(funds[0].Amount) {
		return fmt.Errorf("%w: buyer balance %s", ErrUnexpected, balance)
	}
	return self.expectTokens(2)
}

func (self *Scenario) spoofedNotification() error {
	msg, err := json.Marshal(minter.ExecuteMsg{Receive: &cw20.ReceiveMsg{
		Sender: self.mallory.String(),
		Amount: math.NewIntFromUint64(self.config.Minter.TokenPrice),
		Msg:    minter.MintPayload(),
	}})
	if err != nil {
		return err
	}

	_, err = self.host.Execute(self.mallory, self.client.Deployment().Minter, msg, nil)
	err = self.expectRejected(err, minter.ErrUnauthorized)
	if err != nil {
		return err
	}
	return self.expectTokens(2)
}

func (self *Scenario) collectionStable() error {
	state, err := self.client.State()
	if err != nil {
		return err
	}
	if state.NftAddress != self.client.Deployment().Collection.String() {
		return fmt.Errorf("%w: collection %s", ErrUnexpected, state.NftAddress)
	}
	return nil
}
