package gateway

import (
	"errors"
	"net/http"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/warp-contracts/minter/src/gateway/request"
	"github.com/warp-contracts/minter/src/gateway/response"
	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/host"
	. "github.com/warp-contracts/minter/src/utils/logger"
)

// Cached per height, a result read before a commit can't be served after it
func (self *Server) onGetState(c *gin.Context) {
	height := self.host.Height()
	key := stateCacheKey(height)

	cached, ok := self.cache.Get(key)
	if ok {
		self.monitor.GetReport().Gateway.State.StateCacheHits.Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	self.monitor.GetReport().Gateway.State.StateCacheMisses.Inc()

	config, err := self.client.State()
	if err != nil {
		self.fail(c, err, "Failed to query state")
		return
	}

	out := &response.State{Config: config, Height: height}
	if self.host.Height() == height {
		self.cache.SetDefault(key, out)
	}
	c.JSON(http.StatusOK, out)
}

func (self *Server) onGetTokens(c *gin.Context) {
	var in request.GetTokens
	err := c.ShouldBindQuery(&in)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	var owner sdk.AccAddress
	if in.Owner != "" {
		owner = host.AccountAddress(in.Owner)
	}

	tokens, err := self.client.Tokens(owner, in.StartAfter, in.Limit)
	if err != nil {
		self.fail(c, err, "Failed to query tokens")
		return
	}
	if tokens == nil {
		tokens = []string{}
	}

	c.JSON(http.StatusOK, &response.Tokens{Tokens: tokens})
}

func (self *Server) onGetBalance(c *gin.Context) {
	var in request.GetBalance
	err := c.ShouldBindQuery(&in)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	addr := host.AccountAddress(in.Address)
	native, err := self.client.Balances(addr)
	if err != nil {
		self.fail(c, err, "Failed to query balances")
		return
	}

	token, err := self.client.TokenBalance(addr)
	if err != nil {
		self.fail(c, err, "Failed to query token balance")
		return
	}

	c.JSON(http.StatusOK, &response.Balance{Address: addr.String(), Native: native, Token: token})
}

func (self *Server) onMint(c *gin.Context) {
	var in request.Mint
	err := c.ShouldBindJSON(&in)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	sender := host.AccountAddress(in.Sender)
	result, err := self.client.Mint(sender, in.Funds)
	if err != nil {
		self.fail(c, err, "Mint rejected")
		return
	}

	LOG(c).WithField("tx_id", result.ID).WithField("sender", sender.String()).Debug("Minted")
	c.JSON(http.StatusOK, response.TxToResponse(result))
}

func (self *Server) onSend(c *gin.Context) {
	var in request.Send
	err := c.ShouldBindJSON(&in)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}
	if in.Amount.IsNil() {
		self.badRequest(c, errors.New("amount is required"), "Failed to parse request")
		return
	}

	contract := self.client.Deployment().Minter
	if in.Contract != "" {
		contract = host.AccountAddress(in.Contract)
	}

	payload := []byte(in.Msg)
	if len(payload) == 0 {
		payload = minter.MintPayload()
	}

	sender := host.AccountAddress(in.Sender)
	result, err := self.client.Send(sender, contract, in.Amount, payload)
	if err != nil {
		self.fail(c, err, "Send rejected")
		return
	}

	LOG(c).WithField("tx_id", result.ID).WithField("sender", sender.String()).Debug("Sent")
	c.JSON(http.StatusOK, response.TxToResponse(result))
}

func (self *Server) onFaucet(c *gin.Context) {
	var in request.Faucet
	err := c.ShouldBindJSON(&in)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	denom := in.Denom
	if denom == "" {
		denom = self.Config.Minter.NativeDenom
	}
	err = sdk.ValidateDenom(denom)
	if err != nil {
		self.badRequest(c, err, "Invalid denom")
		return
	}
	coin := sdk.NewCoin(denom, math.NewIntFromUint64(self.Config.Gateway.FaucetAmount))

	result, err := self.client.Fund(host.AccountAddress(in.Address), sdk.NewCoins(coin))
	if err != nil {
		self.fail(c, err, "Faucet failed")
		return
	}

	c.JSON(http.StatusOK, response.TxToResponse(result))
}
