package cw20

import (
	"cosmossdk.io/math"
)

type Coin struct {
	Address string   `json:"address"`
	Amount  math.Int `json:"amount"`
}

type MinterResponse struct {
	Minter string    `json:"minter"`
	Cap    *math.Int `json:"cap,omitempty"`
}

type InstantiateMsg struct {
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	Decimals        uint8           `json:"decimals"`
	InitialBalances []Coin          `json:"initial_balances"`
	Mint            *MinterResponse `json:"mint,omitempty"`
}

type ExecuteMsg struct {
	Transfer *TransferMsg `json:"transfer,omitempty"`
	Send     *SendMsg     `json:"send,omitempty"`
	Mint     *MintMsg     `json:"mint,omitempty"`
	Burn     *BurnMsg     `json:"burn,omitempty"`
}

type TransferMsg struct {
	Recipient string   `json:"recipient"`
	Amount    math.Int `json:"amount"`
}

// Moves tokens to a contract and notifies it with a ReceiveMsg
type SendMsg struct {
	Contract string   `json:"contract"`
	Amount   math.Int `json:"amount"`
	Msg      []byte   `json:"msg"`
}

type MintMsg struct {
	Recipient string   `json:"recipient"`
	Amount    math.Int `json:"amount"`
}

type BurnMsg struct {
	Amount math.Int `json:"amount"`
}

// Notification delivered to the recipient contract of a Send
type ReceiveMsg struct {
	Sender string   `json:"sender"`
	Amount math.Int `json:"amount"`
	Msg    []byte   `json:"msg"`
}

type ReceiverExecuteMsg struct {
	Receive *ReceiveMsg `json:"receive"`
}

type QueryMsg struct {
	Balance   *BalanceQuery `json:"balance,omitempty"`
	TokenInfo *struct{}     `json:"token_info,omitempty"`
	Minter    *struct{}     `json:"minter,omitempty"`
}

type BalanceQuery struct {
	Address string `json:"address"`
}

type BalanceResponse struct {
	Balance math.Int `json:"balance"`
}

type TokenInfoResponse struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Decimals    uint8    `json:"decimals"`
	TotalSupply math.Int `json:"total_supply"`
}
