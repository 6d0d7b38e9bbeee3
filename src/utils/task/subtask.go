package task

import (
	"fmt"
	"time"

	"github.com/gammazero/workerpool"
)

// Child task, started with the parent and stopped with it.
// Parent isn't finished until the child is.
func (self *Task) WithSubtask(t *Task) *Task {
	t = t.WithOnBeforeStart(func() error {
		self.running.Add(1)
		return nil
	}).WithOnAfterStop(func() {
		self.running.Done()
	})
	self.subtasks = append(self.subtasks, t)
	return self
}

// Function run in its own goroutine. Should return after StopChannel is closed
func (self *Task) WithSubtaskFunc(f func() error) *Task {
	self.subtasksFunc = append(self.subtasksFunc, f)
	return self
}

// Calls f right away and then every period until the task is stopped or f fails
func (self *Task) WithPeriodicSubtaskFunc(period time.Duration, f func() error) *Task {
	return self.WithSubtaskFunc(func() error {
		timer := time.NewTimer(period)
		defer timer.Stop()

		for {
			err := f()
			if err != nil {
				return err
			}
			timer.Reset(period)

			select {
			case <-self.StopChannel:
				self.Log.Debug("Task stopped")
				return nil
			case <-timer.C:
			}
		}
	})
}

// Workers are drained after all subtasks finish
func (self *Task) WithWorkerPool(maxWorkers int) *Task {
	self.Workers = workerpool.New(maxWorkers)
	return self.WithOnAfterStop(func() {
		self.Workers.StopWait()
	})
}

// Queues the job, it's dropped when the task is stopping
func (self *Task) SubmitToWorker(f func()) {
	if self.IsStopping.Load() {
		self.Log.Warn("Task is stopping, job dropped")
		return
	}
	self.Workers.Submit(f)
}

func (self *Task) run(f func() error) {
	self.running.Add(1)
	go func() {
		defer self.running.Done()
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			err, ok := p.(error)
			if !ok {
				err = fmt.Errorf("%v", p)
			}
			self.Log.WithError(err).Error("Panic. Stopping.")
			panic(p)
		}()

		err := f()
		if err != nil {
			self.Log.WithError(err).Error("Subtask failed")
		}
	}()
}
