package service

import (
	"time"

	"subpay/config"
)

// retrySchedule is the dispatcher's backoff state: attempt count and next
// delay, advanced explicitly so the waiting mechanism stays separate from
// the policy and tests can drive it without real sleeps.
type retrySchedule struct {
	maxRetries int
	multiplier float64
	maxDelay   time.Duration
	attempt    int
	delay      time.Duration
}

func newRetrySchedule(cfg config.NotifyConfig) *retrySchedule {
	delay := cfg.InitialDelay
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return &retrySchedule{
		maxRetries: cfg.MaxRetries,
		multiplier: cfg.BackoffMultiplier,
		maxDelay:   cfg.MaxDelay,
		delay:      delay,
	}
}

// Next returns the delay to wait before the next attempt, or false when
// the retry budget is spent. There is never a delay after the final
// attempt because the final attempt has no Next call behind it.
func (r *retrySchedule) Next() (time.Duration, bool) {
	if r.attempt >= r.maxRetries {
		return 0, false
	}
	r.attempt++
	d := r.delay
	next := time.Duration(float64(r.delay) * r.multiplier)
	if r.maxDelay > 0 && next > r.maxDelay {
		next = r.maxDelay
	}
	r.delay = next
	return d, true
}
