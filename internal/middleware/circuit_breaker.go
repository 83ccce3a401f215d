package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing, reject requests
	CircuitHalfOpen                     // Testing if recovered
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// CircuitBreaker stops calling the completion service after repeated
// failures and tries it again once Timeout has elapsed
type CircuitBreaker struct {
	mu              sync.Mutex
	state           CircuitState
	failures        int
	successes       int
	lastFailureTime time.Time
	trialInFlight   bool // a half-open trial request is running
	now             func() time.Time

	FailureThreshold int           // Consecutive failures before opening
	SuccessThreshold int           // Half-open successes before closing
	Timeout          time.Duration // How long to stay open
	OnStateChange    func(from, to CircuitState)
}

// NewCircuitBreaker creates a breaker; a failureThreshold of zero or less
// returns nil, which the middleware treats as disabled
func NewCircuitBreaker(failureThreshold int, timeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		return nil
	}
	return &CircuitBreaker{
		state:            CircuitClosed,
		FailureThreshold: failureThreshold,
		SuccessThreshold: 1,
		Timeout:          timeout,
		now:              time.Now,
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Allow checks if a request should be allowed. While half-open only one
// trial request is let through at a time; its outcome must be reported with
// RecordSuccess, RecordFailure or Release.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailureTime) > cb.Timeout {
			cb.setState(CircuitHalfOpen)
			cb.trialInFlight = true
			return true
		}
		return false
	case CircuitHalfOpen:
		if cb.trialInFlight {
			return false
		}
		cb.trialInFlight = true
		return true
	}
	return false
}

// Release ends a request whose outcome says nothing about the completion
// service, such as a client error, so the next trial may start.
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.trialInFlight = false
}

// RecordSuccess records a successful request
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialInFlight = false

	switch cb.state {
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.SuccessThreshold {
			cb.setState(CircuitClosed)
			cb.failures = 0
			cb.successes = 0
		}
	case CircuitClosed:
		cb.failures = 0
	}
}

// RecordFailure records a failed request
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = cb.now()
	cb.trialInFlight = false

	switch cb.state {
	case CircuitClosed:
		if cb.failures >= cb.FailureThreshold {
			cb.setState(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.setState(CircuitOpen)
		cb.successes = 0
	}
}

func (cb *CircuitBreaker) setState(newState CircuitState) {
	if cb.OnStateChange != nil && cb.state != newState {
		cb.OnStateChange(cb.state, newState)
	}
	cb.state = newState
}

// CircuitBreakerMiddleware rejects requests while the breaker is open and
// feeds it the outcome of every request it lets through. Server-side
// failures (5xx) count against the breaker; client errors only release a
// half-open trial. A nil
// breaker disables the middleware.
func CircuitBreakerMiddleware(cb *CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cb == nil {
			c.Next()
			return
		}

		if !cb.Allow() {
			ServiceUnavailable(c,
				"generation service is temporarily unavailable due to repeated failures",
				int(cb.Timeout.Seconds()),
			)
			return
		}

		c.Next()

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			cb.RecordFailure()
		case status < http.StatusBadRequest:
			cb.RecordSuccess()
		default:
			cb.Release()
		}
	}
}
