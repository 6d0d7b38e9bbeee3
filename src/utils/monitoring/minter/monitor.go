package monitor_minter

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/config"
	"github.com/warp-contracts/minter/src/utils/host"
	"github.com/warp-contracts/minter/src/utils/monitoring/report"
	"github.com/warp-contracts/minter/src/utils/task"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int

	collector *Collector

	// Counter snapshots taken every minute
	Transactions   *deque.Deque[uint64]
	MintsConfirmed *deque.Deque[uint64]
	Failures       *deque.Deque[uint64]
}

func NewMonitor(config *config.Config) (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:            &report.RunReport{},
		Host:           &report.HostReport{},
		Minter:         &report.MinterReport{},
		Gateway:        &report.GatewayReport{},
		RedisPublisher: &report.RedisPublisherReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(config, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorTransactions).
		WithPeriodicSubtaskFunc(time.Minute, self.monitorMints).
		WithPeriodicSubtaskFunc(time.Minute, self.monitorFailures)

	return self.WithMaxHistorySize(30)
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize

	self.Transactions = deque.New[uint64](self.historySize)
	self.MintsConfirmed = deque.New[uint64](self.historySize)
	self.Failures = deque.New[uint64](self.historySize)

	return self
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

// Host hook, called after every committed transaction
func (self *Monitor) OnCommit(result *host.TxResult) {
	state := &self.Report.Host.State
	state.CurrentHeight.Store(result.Height)
	state.LastCommitTimestamp.Store(result.Time.Unix())
	state.TransactionsCommitted.Inc()
	state.EventsEmitted.Add(uint64(len(result.Events)))

	for _, payment := range result.Attributes(host.EventTypeWasmPrefix+minter.EventTypeMinted, "payment") {
		self.Report.Minter.State.MintsConfirmed.Inc()
		self.Report.Minter.State.LastMintTimestamp.Store(result.Time.Unix())
		switch payment {
		case minter.PaymentNative:
			self.Report.Minter.State.MintsPaidNative.Inc()
		case minter.PaymentCw20:
			self.Report.Minter.State.MintsPaidCw20.Inc()
		}
	}
}

// Host hook, called after every reverted transaction
func (self *Monitor) OnRevert(id string, err error) {
	self.Report.Host.State.TransactionsReverted.Inc()

	errs := &self.Report.Minter.Errors
	switch {
	case errors.Is(err, minter.ErrPaymentMismatch):
		errs.PaymentMismatch.Inc()
	case errors.Is(err, minter.ErrUnauthorized):
		errs.Unauthorized.Inc()
	case errors.Is(err, minter.ErrDecode):
		errs.Decode.Inc()
	case errors.Is(err, minter.ErrSubcallFailure):
		errs.SubcallFailure.Inc()
	case errors.Is(err, host.ErrContractPanic):
		self.Report.Host.Errors.ContractPanics.Inc()
	default:
		errs.Other.Inc()
	}
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

// Average growth of a counter over the history window
func (self *Monitor) average(history *deque.Deque[uint64], loaded uint64) float64 {
	history.PushBack(loaded)
	if history.Len() > self.historySize {
		history.PopFront()
	}
	return round(float64(history.Back()-history.Front()) / float64(history.Len()))
}

func (self *Monitor) monitorTransactions() (err error) {
	loaded := self.Report.Host.State.TransactionsCommitted.Load()
	self.Report.Host.State.AverageTxsPerMinute.Store(self.average(self.Transactions, loaded))
	return
}

func (self *Monitor) monitorMints() (err error) {
	loaded := self.Report.Minter.State.MintsConfirmed.Load()
	self.Report.Minter.State.AverageMintsPerMinute.Store(self.average(self.MintsConfirmed, loaded))
	return
}

// Failures that aren't caused by the caller
func (self *Monitor) monitorFailures() (err error) {
	loaded := self.Report.Minter.Errors.SubcallFailure.Load() + self.Report.Host.Errors.ContractPanics.Load()
	self.Report.Minter.State.AverageFailuresPerMinute.Store(self.average(self.Failures, loaded))
	return
}

func (self *Monitor) IsOK() bool {
	now := time.Now().Unix()
	if now-self.Report.Run.State.StartTimestamp.Load() < 300 {
		return true
	}

	// Running long enough, check stats
	return self.Report.Minter.State.AverageFailuresPerMinute.Load() < 1
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
