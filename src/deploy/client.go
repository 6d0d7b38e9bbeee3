package deploy

import (
	"encoding/json"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/warp-contracts/minter/src/cw20"
	"github.com/warp-contracts/minter/src/cw721"
	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/host"
)

// Typed calls to the deployed contracts
type Client struct {
	host       *host.Host
	deployment *Deployment
}

func NewClient(h *host.Host, deployment *Deployment) *Client {
	return &Client{host: h, deployment: deployment}
}

func (self *Client) Deployment() *Deployment {
	return self.deployment
}

// Pays with native funds attached to the call
func (self *Client) Mint(sender sdk.AccAddress, funds sdk.Coins) (*host.TxResult, error) {
	msg, err := json.Marshal(minter.ExecuteMsg{Mint: &struct{}{}})
	if err != nil {
		return nil, err
	}
	return self.host.Execute(sender, self.deployment.Minter, msg, funds)
}

// Pays with the token, sending it to the minter with the mint payload
func (self *Client) MintWithToken(sender sdk.AccAddress, amount math.Int) (*host.TxResult, error) {
	return self.Send(sender, self.deployment.Minter, amount, minter.MintPayload())
}

// Sends tokens to a contract with an arbitrary payload
func (self *Client) Send(sender, contract sdk.AccAddress, amount math.Int, payload []byte) (*host.TxResult, error) {
	msg, err := json.Marshal(cw20.ExecuteMsg{Send: &cw20.SendMsg{
		Contract: contract.String(),
		Amount:   amount,
		Msg:      payload,
	}})
	if err != nil {
		return nil, err
	}
	return self.host.Execute(sender, self.deployment.Token, msg, nil)
}

// Gives native coins to an account
func (self *Client) Fund(addr sdk.AccAddress, coins sdk.Coins) (*host.TxResult, error) {
	return self.host.Fund(addr, coins)
}

func (self *Client) State() (out minter.Config, err error) {
	err = self.query(self.deployment.Minter, minter.QueryMsg{State: &struct{}{}}, &out)
	return
}

func (self *Client) NumTokens() (out uint64, err error) {
	var res cw721.NumTokensResponse
	err = self.query(self.deployment.Collection, cw721.QueryMsg{NumTokens: &struct{}{}}, &res)
	return res.Count, err
}

// Tokens of the owner, or all tokens when the owner is nil
func (self *Client) Tokens(owner sdk.AccAddress, startAfter string, limit uint32) (out []string, err error) {
	msg := cw721.QueryMsg{AllTokens: &cw721.AllTokensQuery{StartAfter: startAfter, Limit: limit}}
	if owner != nil {
		msg = cw721.QueryMsg{Tokens: &cw721.TokensQuery{Owner: owner.String(), StartAfter: startAfter, Limit: limit}}
	}

	var res cw721.TokensResponse
	err = self.query(self.deployment.Collection, msg, &res)
	return res.Tokens, err
}

func (self *Client) OwnerOf(tokenID string) (out sdk.AccAddress, err error) {
	var res cw721.OwnerOfResponse
	err = self.query(self.deployment.Collection, cw721.QueryMsg{OwnerOf: &cw721.OwnerOfQuery{TokenID: tokenID}}, &res)
	if err != nil {
		return
	}
	return host.ParseAddress(res.Owner)
}

func (self *Client) TokenBalance(addr sdk.AccAddress) (out math.Int, err error) {
	var res cw20.BalanceResponse
	err = self.query(self.deployment.Token, cw20.QueryMsg{Balance: &cw20.BalanceQuery{Address: addr.String()}}, &res)
	return res.Balance, err
}

func (self *Client) Balances(addr sdk.AccAddress) (sdk.Coins, error) {
	return self.host.AllBalances(addr)
}

func (self *Client) query(contract sdk.AccAddress, msg, out any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	res, err := self.host.Query(contract, raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(res, out)
}
