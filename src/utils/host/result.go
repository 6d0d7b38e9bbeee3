package host

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Outcome of a committed transaction
type TxResult struct {
	ID              string         `json:"id"`
	Height          int64          `json:"height"`
	Time            time.Time      `json:"time"`
	ContractAddress sdk.AccAddress `json:"contract_address,omitempty"`
	Data            []byte         `json:"data,omitempty"`
	Events          sdk.Events     `json:"events"`
	AppHash         []byte         `json:"app_hash"`
}

// First value of the attribute in events of the given type
func (self *TxResult) Attribute(eventType, key string) (string, bool) {
	return findAttribute(self.Events, eventType, key)
}

// All values of the attribute in events of the given type, in emission order
func (self *TxResult) Attributes(eventType, key string) (out []string) {
	for _, ev := range self.Events {
		if ev.Type != eventType {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == key {
				out = append(out, attr.Value)
			}
		}
	}
	return
}
