package monitor_minter

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	StartTimestamp *prometheus.Desc
	UpForSeconds   *prometheus.Desc

	// Host
	CurrentHeight         *prometheus.Desc
	LastCommitTimestamp   *prometheus.Desc
	TransactionsCommitted *prometheus.Desc
	TransactionsReverted  *prometheus.Desc
	EventsEmitted         *prometheus.Desc
	AverageTxsPerMinute   *prometheus.Desc

	// Minter
	MintsConfirmed           *prometheus.Desc
	MintsPaidNative          *prometheus.Desc
	MintsPaidCw20            *prometheus.Desc
	LastMintTimestamp        *prometheus.Desc
	AverageMintsPerMinute    *prometheus.Desc
	AverageFailuresPerMinute *prometheus.Desc

	// Gateway
	RequestsServed   *prometheus.Desc
	StateCacheHits   *prometheus.Desc
	StateCacheMisses *prometheus.Desc

	// Publisher
	MessagesPublished *prometheus.Desc
	MessagesDropped   *prometheus.Desc

	// Errors
	ContractPanics     *prometheus.Desc
	PaymentMismatch    *prometheus.Desc
	Unauthorized       *prometheus.Desc
	Decode             *prometheus.Desc
	SubcallFailure     *prometheus.Desc
	Other              *prometheus.Desc
	BadRequest         *prometheus.Desc
	RateLimited        *prometheus.Desc
	Internal           *prometheus.Desc
	PublishErrors      *prometheus.Desc
	PersistentFailures *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "minter",
	}

	return &Collector{
		// Run
		StartTimestamp: prometheus.NewDesc("start_timestamp", "", nil, labels),
		UpForSeconds:   prometheus.NewDesc("up_for_seconds", "", nil, labels),

		// Host
		CurrentHeight:         prometheus.NewDesc("host_current_height", "", nil, labels),
		LastCommitTimestamp:   prometheus.NewDesc("host_last_commit_timestamp", "", nil, labels),
		TransactionsCommitted: prometheus.NewDesc("host_transactions_committed", "", nil, labels),
		TransactionsReverted:  prometheus.NewDesc("host_transactions_reverted", "", nil, labels),
		EventsEmitted:         prometheus.NewDesc("host_events_emitted", "", nil, labels),
		AverageTxsPerMinute:   prometheus.NewDesc("host_average_txs_per_minute", "", nil, labels),

		// Minter
		MintsConfirmed:           prometheus.NewDesc("minter_mints_confirmed", "", nil, labels),
		MintsPaidNative:          prometheus.NewDesc("minter_mints_paid_native", "", nil, labels),
		MintsPaidCw20:            prometheus.NewDesc("minter_mints_paid_cw20", "", nil, labels),
		LastMintTimestamp:        prometheus.NewDesc("minter_last_mint_timestamp", "", nil, labels),
		AverageMintsPerMinute:    prometheus.NewDesc("minter_average_mints_per_minute", "", nil, labels),
		AverageFailuresPerMinute: prometheus.NewDesc("minter_average_failures_per_minute", "", nil, labels),

		// Gateway
		RequestsServed:   prometheus.NewDesc("gateway_requests_served", "", nil, labels),
		StateCacheHits:   prometheus.NewDesc("gateway_state_cache_hits", "", nil, labels),
		StateCacheMisses: prometheus.NewDesc("gateway_state_cache_misses", "", nil, labels),

		// Publisher
		MessagesPublished: prometheus.NewDesc("redis_publisher_messages_published", "", nil, labels),
		MessagesDropped:   prometheus.NewDesc("redis_publisher_messages_dropped", "", nil, labels),

		// Errors
		ContractPanics:     prometheus.NewDesc("error_host_contract_panic", "", nil, labels),
		PaymentMismatch:    prometheus.NewDesc("error_minter_payment_mismatch", "", nil, labels),
		Unauthorized:       prometheus.NewDesc("error_minter_unauthorized", "", nil, labels),
		Decode:             prometheus.NewDesc("error_minter_decode", "", nil, labels),
		SubcallFailure:     prometheus.NewDesc("error_minter_subcall_failure", "", nil, labels),
		Other:              prometheus.NewDesc("error_minter_other", "", nil, labels),
		BadRequest:         prometheus.NewDesc("error_gateway_bad_request", "", nil, labels),
		RateLimited:        prometheus.NewDesc("error_gateway_rate_limited", "", nil, labels),
		Internal:           prometheus.NewDesc("error_gateway_internal", "", nil, labels),
		PublishErrors:      prometheus.NewDesc("error_redis_publisher_publish", "", nil, labels),
		PersistentFailures: prometheus.NewDesc("error_redis_publisher_persistent", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Run
	ch <- self.StartTimestamp
	ch <- self.UpForSeconds

	// Host
	ch <- self.CurrentHeight
	ch <- self.LastCommitTimestamp
	ch <- self.TransactionsCommitted
	ch <- self.TransactionsReverted
	ch <- self.EventsEmitted
	ch <- self.AverageTxsPerMinute

	// Minter
	ch <- self.MintsConfirmed
	ch <- self.MintsPaidNative
	ch <- self.MintsPaidCw20
	ch <- self.LastMintTimestamp
	ch <- self.AverageMintsPerMinute
	ch <- self.AverageFailuresPerMinute

	// Gateway
	ch <- self.RequestsServed
	ch <- self.StateCacheHits
	ch <- self.StateCacheMisses

	// Publisher
	ch <- self.MessagesPublished
	ch <- self.MessagesDropped

	// Errors
	ch <- self.ContractPanics
	ch <- self.PaymentMismatch
	ch <- self.Unauthorized
	ch <- self.Decode
	ch <- self.SubcallFailure
	ch <- self.Other
	ch <- self.BadRequest
	ch <- self.RateLimited
	ch <- self.Internal
	ch <- self.PublishErrors
	ch <- self.PersistentFailures
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	r := &self.monitor.Report

	// Run
	ch <- prometheus.MustNewConstMetric(self.StartTimestamp, prometheus.GaugeValue, float64(r.Run.State.StartTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(r.Run.State.UpForSeconds.Load()))

	// Host
	ch <- prometheus.MustNewConstMetric(self.CurrentHeight, prometheus.GaugeValue, float64(r.Host.State.CurrentHeight.Load()))
	ch <- prometheus.MustNewConstMetric(self.LastCommitTimestamp, prometheus.GaugeValue, float64(r.Host.State.LastCommitTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionsCommitted, prometheus.CounterValue, float64(r.Host.State.TransactionsCommitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionsReverted, prometheus.CounterValue, float64(r.Host.State.TransactionsReverted.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventsEmitted, prometheus.CounterValue, float64(r.Host.State.EventsEmitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageTxsPerMinute, prometheus.GaugeValue, r.Host.State.AverageTxsPerMinute.Load())

	// Minter
	ch <- prometheus.MustNewConstMetric(self.MintsConfirmed, prometheus.CounterValue, float64(r.Minter.State.MintsConfirmed.Load()))
	ch <- prometheus.MustNewConstMetric(self.MintsPaidNative, prometheus.CounterValue, float64(r.Minter.State.MintsPaidNative.Load()))
	ch <- prometheus.MustNewConstMetric(self.MintsPaidCw20, prometheus.CounterValue, float64(r.Minter.State.MintsPaidCw20.Load()))
	ch <- prometheus.MustNewConstMetric(self.LastMintTimestamp, prometheus.GaugeValue, float64(r.Minter.State.LastMintTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageMintsPerMinute, prometheus.GaugeValue, r.Minter.State.AverageMintsPerMinute.Load())
	ch <- prometheus.MustNewConstMetric(self.AverageFailuresPerMinute, prometheus.GaugeValue, r.Minter.State.AverageFailuresPerMinute.Load())

	// Gateway
	ch <- prometheus.MustNewConstMetric(self.RequestsServed, prometheus.CounterValue, float64(r.Gateway.State.RequestsServed.Load()))
	ch <- prometheus.MustNewConstMetric(self.StateCacheHits, prometheus.CounterValue, float64(r.Gateway.State.StateCacheHits.Load()))
	ch <- prometheus.MustNewConstMetric(self.StateCacheMisses, prometheus.CounterValue, float64(r.Gateway.State.StateCacheMisses.Load()))

	// Publisher
	ch <- prometheus.MustNewConstMetric(self.MessagesPublished, prometheus.CounterValue, float64(r.RedisPublisher.State.MessagesPublished.Load()))
	ch <- prometheus.MustNewConstMetric(self.MessagesDropped, prometheus.CounterValue, float64(r.RedisPublisher.State.MessagesDropped.Load()))

	// Errors
	ch <- prometheus.MustNewConstMetric(self.ContractPanics, prometheus.CounterValue, float64(r.Host.Errors.ContractPanics.Load()))
	ch <- prometheus.MustNewConstMetric(self.PaymentMismatch, prometheus.CounterValue, float64(r.Minter.Errors.PaymentMismatch.Load()))
	ch <- prometheus.MustNewConstMetric(self.Unauthorized, prometheus.CounterValue, float64(r.Minter.Errors.Unauthorized.Load()))
	ch <- prometheus.MustNewConstMetric(self.Decode, prometheus.CounterValue, float64(r.Minter.Errors.Decode.Load()))
	ch <- prometheus.MustNewConstMetric(self.SubcallFailure, prometheus.CounterValue, float64(r.Minter.Errors.SubcallFailure.Load()))
	ch <- prometheus.MustNewConstMetric(self.Other, prometheus.CounterValue, float64(r.Minter.Errors.Other.Load()))
	ch <- prometheus.MustNewConstMetric(self.BadRequest, prometheus.CounterValue, float64(r.Gateway.Errors.BadRequest.Load()))
	ch <- prometheus.MustNewConstMetric(self.RateLimited, prometheus.CounterValue, float64(r.Gateway.Errors.RateLimited.Load()))
	ch <- prometheus.MustNewConstMetric(self.Internal, prometheus.CounterValue, float64(r.Gateway.Errors.Internal.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishErrors, prometheus.CounterValue, float64(r.RedisPublisher.Errors.Publish.Load()))
	ch <- prometheus.MustNewConstMetric(self.PersistentFailures, prometheus.CounterValue, float64(r.RedisPublisher.Errors.PersistentFailure.Load()))
}
