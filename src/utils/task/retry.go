package task

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retries an operation with exponential backoff until it succeeds, the context is done or max elapsed time passes
type Retry struct {
	ctx            context.Context
	maxElapsedTime time.Duration
	maxInterval    time.Duration
	onError        func(err error, attempt int)
	attempt        int
}

func NewRetry() *Retry {
	return &Retry{
		ctx:     context.Background(),
		onError: func(error, int) {},
	}
}

func (self *Retry) WithMaxElapsedTime(maxElapsedTime time.Duration) *Retry {
	self.maxElapsedTime = maxElapsedTime
	return self
}

func (self *Retry) WithMaxInterval(maxInterval time.Duration) *Retry {
	self.maxInterval = maxInterval
	return self
}

func (self *Retry) WithContext(ctx context.Context) *Retry {
	self.ctx = ctx
	return self
}

func (self *Retry) WithOnError(v func(err error, attempt int)) *Retry {
	self.onError = v
	return self
}

func (self *Retry) Run(f func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = self.maxElapsedTime
	if self.maxInterval > 0 {
		b.MaxInterval = self.maxInterval
	}

	op := func() error {
		self.attempt++
		err := f()
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.RetryNotify(op, backoff.WithContext(b, self.ctx), func(err error, _ time.Duration) {
		self.onError(err, self.attempt)
	})
}
