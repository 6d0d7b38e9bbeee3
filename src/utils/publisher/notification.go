package publisher

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/host"
	"github.com/warp-contracts/minter/src/utils/monitoring"
)

// Published to Redis for every confirmed mint
type MintNotification struct {
	TxID       string    `json:"tx_id"`
	Height     int64     `json:"height"`
	Timestamp  time.Time `json:"timestamp"`
	Collection string    `json:"collection"`
	TokenID    string    `json:"token_id"`
	Owner      string    `json:"owner"`
	Payment    string    `json:"payment"`
}

func (self *MintNotification) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}

// One notification per minted event in the transaction
func NewMintNotifications(result *host.TxResult) (out []*MintNotification) {
	for _, event := range result.Events {
		if event.Type != host.EventTypeWasmPrefix+minter.EventTypeMinted {
			continue
		}

		notification := &MintNotification{
			TxID:      result.ID,
			Height:    result.Height,
			Timestamp: result.Time,
		}
		for _, attr := range event.Attributes {
			switch attr.Key {
			case "collection":
				notification.Collection = attr.Value
			case "token_id":
				notification.TokenID = attr.Value
			case "owner":
				notification.Owner = attr.Value
			case "payment":
				notification.Payment = attr.Value
			}
		}
		out = append(out, notification)
	}
	return
}

// Turns committed transactions into notifications, never blocks the host
type MintSource struct {
	monitor monitoring.Monitor

	mtx    sync.Mutex
	closed bool
	output chan *MintNotification
}

func NewMintSource(queueSize int) (self *MintSource) {
	self = new(MintSource)
	self.output = make(chan *MintNotification, queueSize)
	return
}

func (self *MintSource) WithMonitor(monitor monitoring.Monitor) *MintSource {
	self.monitor = monitor
	return self
}

func (self *MintSource) Output() chan *MintNotification {
	return self.output
}

// Host hook
func (self *MintSource) OnCommit(result *host.TxResult) {
	notifications := NewMintNotifications(result)
	if len(notifications) == 0 {
		return
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.closed {
		return
	}

	for _, notification := range notifications {
		select {
		case self.output <- notification:
		default:
			// Publisher can't keep up
			if self.monitor != nil {
				self.monitor.GetReport().RedisPublisher.State.MessagesDropped.Inc()
			}
		}
	}
}

// Closes the output, later commits are ignored
func (self *MintSource) Close() {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.closed {
		return
	}
	self.closed = true
	close(self.output)
}
