package task

import (
	"context"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/warp-contracts/minter/src/utils/config"
	"github.com/warp-contracts/minter/src/utils/logger"
)

// Used when there's no config to take the stop timeout from
const defaultStopTimeout = 30 * time.Second

// Long lived component of the minter: the gateway, the monitor, the publisher.
// Runs subtasks in goroutines and stops them together.
type Task struct {
	Config *config.Config
	Log    *logrus.Entry
	Name   string

	// Closed on Stop(), periodic subtasks return when it's closed
	StopChannel chan bool
	IsStopping  *atomic.Bool
	stopOnce    sync.Once

	// Cancelled on Stop(). Used inside the task
	Ctx    context.Context
	cancel context.CancelFunc

	// Cancelled when every subtask finished. Used outside the task
	CtxRunning    context.Context
	cancelRunning context.CancelFunc
	running       sync.WaitGroup

	// Optional workers, see WithWorkerPool
	Workers *workerpool.WorkerPool

	onBeforeStart []func() error
	onStop        []func()
	onAfterStop   []func()
	subtasksFunc  []func() error
	subtasks      []*Task
}

func NewTask(config *config.Config, name string) (self *Task) {
	self = new(Task)
	self.Config = config
	self.Name = name
	self.Log = logger.NewSublogger(name)

	self.StopChannel = make(chan bool, 1)
	self.IsStopping = atomic.NewBool(false)

	self.Ctx, self.cancel = context.WithCancel(context.Background())
	self.CtxRunning, self.cancelRunning = context.WithCancel(context.Background())

	return
}

func (self *Task) WithOnBeforeStart(f func() error) *Task {
	self.onBeforeStart = append(self.onBeforeStart, f)
	return self
}

func (self *Task) WithOnStop(f func()) *Task {
	self.onStop = append(self.onStop, f)
	return self
}

// Run once all subtasks returned
func (self *Task) WithOnAfterStop(f func()) *Task {
	self.onAfterStop = append(self.onAfterStop, f)
	return self
}

func (self *Task) Start() (err error) {
	for _, f := range self.onBeforeStart {
		err = f()
		if err != nil {
			return
		}
	}

	for _, subtask := range self.subtasks {
		err = subtask.Start()
		if err != nil {
			return
		}
	}

	for _, f := range self.subtasksFunc {
		self.run(f)
	}

	go func() {
		// Subtasks eventually return after StopChannel gets closed
		self.running.Wait()

		for _, f := range self.onAfterStop {
			f()
		}

		self.cancelRunning()
	}()

	return nil
}

// Signals all subtasks to stop, doesn't wait
func (self *Task) Stop() {
	self.stopOnce.Do(func() {
		self.Log.Info("Stopping...")

		for _, subtask := range self.subtasks {
			subtask.Stop()
		}

		self.IsStopping.Store(true)
		close(self.StopChannel)
		self.cancel()

		for _, f := range self.onStop {
			f()
		}
	})
}

// Stops and waits at most StopTimeout for the subtasks to finish
func (self *Task) StopWait() {
	timeout := defaultStopTimeout
	if self.Config != nil {
		timeout = self.Config.StopTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	self.Stop()

	select {
	case <-ctx.Done():
		self.Log.Error("Timeout reached, failed to stop")
	case <-self.CtxRunning.Done():
		self.Log.Info("Task finished")
	}
}
