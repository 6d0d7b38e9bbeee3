package report

import (
	"go.uber.org/atomic"
)

type MinterErrors struct {
	PaymentMismatch atomic.Uint64 `json:"payment_mismatch"`
	Unauthorized    atomic.Uint64 `json:"unauthorized"`
	Decode          atomic.Uint64 `json:"decode"`
	SubcallFailure  atomic.Uint64 `json:"subcall_failure"`
	Other           atomic.Uint64 `json:"other"`
}

type MinterState struct {
	MintsConfirmed           atomic.Uint64  `json:"mints_confirmed"`
	MintsPaidNative          atomic.Uint64  `json:"mints_paid_native"`
	MintsPaidCw20            atomic.Uint64  `json:"mints_paid_cw20"`
	LastMintTimestamp        atomic.Int64   `json:"last_mint_timestamp"`
	AverageMintsPerMinute    atomic.Float64 `json:"average_mints_per_minute"`
	AverageFailuresPerMinute atomic.Float64 `json:"average_failures_per_minute"`
}

type MinterReport struct {
	State  MinterState  `json:"state"`
	Errors MinterErrors `json:"errors"`
}
