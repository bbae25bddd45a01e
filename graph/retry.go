package graph

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior for an evaluable
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Jitter spreads each delay by up to ±Jitter of its length, e.g. 0.25.
	Jitter float64
	// RetryableErrors determines if an error should trigger a retry. Nil retries all errors.
	RetryableErrors func(error) bool
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

type retryEvaluable struct {
	inner  Evaluable
	config *RetryConfig
}

// Retry wraps ev so that a failed evaluation is attempted again with
// exponential backoff. Parameters and cloning are forwarded to ev.
func Retry(ev Evaluable, config *RetryConfig) Evaluable {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &retryEvaluable{inner: ev, config: config}
}

func (r *retryEvaluable) Evaluate(inputs []any) (any, error) {
	var lastErr error
	delay := r.config.InitialDelay
	attempts := max(r.config.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := r.inner.Evaluate(inputs)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if r.config.RetryableErrors != nil && !r.config.RetryableErrors(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}

		// Don't sleep after the last attempt
		if attempt < attempts {
			time.Sleep(r.jittered(delay))
			delay = time.Duration(float64(delay) * r.config.BackoffFactor)
			if r.config.MaxDelay > 0 {
				delay = min(delay, r.config.MaxDelay)
			}
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", attempts, lastErr)
}

func (r *retryEvaluable) jittered(delay time.Duration) time.Duration {
	if r.config.Jitter <= 0 || delay <= 0 {
		return delay
	}
	//nolint:gosec // Using weak RNG for jitter is acceptable, not security-critical
	return delay + time.Duration(float64(delay)*r.config.Jitter*(2*rand.Float64()-1))
}

func (r *retryEvaluable) Params() []string {
	if t, ok := r.inner.(Tunable); ok {
		return t.Params()
	}
	return nil
}

func (r *retryEvaluable) SetParam(name string, v any) error {
	if t, ok := r.inner.(Tunable); ok {
		return t.SetParam(name, v)
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

func (r *retryEvaluable) CloneEvaluable() Evaluable {
	inner := r.inner
	if cl, ok := inner.(Cloner); ok {
		inner = cl.CloneEvaluable()
	}
	return &retryEvaluable{inner: inner, config: r.config}
}

type timeoutEvaluable struct {
	inner   Evaluable
	timeout time.Duration
}

// Timeout wraps ev so that an evaluation running longer than timeout fails
// with ErrTimeout. The abandoned evaluation keeps running in the background
// and its result is discarded.
func Timeout(ev Evaluable, timeout time.Duration) Evaluable {
	return &timeoutEvaluable{inner: ev, timeout: timeout}
}

func (t *timeoutEvaluable) Evaluate(inputs []any) (any, error) {
	type result struct {
		value any
		err   error
	}
	resultChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- result{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		value, err := t.inner.Evaluate(inputs)
		resultChan <- result{value: value, err: err}
	}()

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case res := <-resultChan:
		return res.value, res.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", ErrTimeout, t.timeout)
	}
}

func (t *timeoutEvaluable) Params() []string {
	if tu, ok := t.inner.(Tunable); ok {
		return tu.Params()
	}
	return nil
}

func (t *timeoutEvaluable) SetParam(name string, v any) error {
	if tu, ok := t.inner.(Tunable); ok {
		return tu.SetParam(name, v)
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

func (t *timeoutEvaluable) CloneEvaluable() Evaluable {
	inner := t.inner
	if cl, ok := inner.(Cloner); ok {
		inner = cl.CloneEvaluable()
	}
	return &timeoutEvaluable{inner: inner, timeout: t.timeout}
}
