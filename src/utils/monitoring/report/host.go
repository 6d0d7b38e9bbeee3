package report

import (
	"go.uber.org/atomic"
)

type HostErrors struct {
	ContractPanics atomic.Uint64 `json:"contract_panics"`
}

type HostState struct {
	CurrentHeight         atomic.Int64   `json:"current_height"`
	LastCommitTimestamp   atomic.Int64   `json:"last_commit_timestamp"`
	TransactionsCommitted atomic.Uint64  `json:"transactions_committed"`
	TransactionsReverted  atomic.Uint64  `json:"transactions_reverted"`
	EventsEmitted         atomic.Uint64  `json:"events_emitted"`
	AverageTxsPerMinute   atomic.Float64 `json:"average_txs_per_minute"`
}

type HostReport struct {
	State  HostState  `json:"state"`
	Errors HostErrors `json:"errors"`
}
