package report

import (
	"go.uber.org/atomic"
)

type GatewayErrors struct {
	BadRequest  atomic.Uint64 `json:"bad_request"`
	RateLimited atomic.Uint64 `json:"rate_limited"`
	Internal    atomic.Uint64 `json:"internal"`
}

type GatewayState struct {
	RequestsServed   atomic.Uint64 `json:"requests_served"`
	StateCacheHits   atomic.Uint64 `json:"state_cache_hits"`
	StateCacheMisses atomic.Uint64 `json:"state_cache_misses"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}
