package resolver

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type circuitState int

const (
	stateClosed   circuitState = iota // backend healthy
	stateOpen                         // backend failing, skip calls
	stateHalfOpen                     // cooldown elapsed, allow one probe
)

// circuitBreaker tracks consecutive backend failures per domain. When a
// domain's backend keeps failing, the orchestrator goes straight to the
// generic fallback for a cooldown period instead of burning a backend
// call that will fail anyway.
type circuitBreaker struct {
	mu               sync.Mutex
	failures         map[string]int
	lastFailure      map[string]time.Time
	state            map[string]circuitState
	failureThreshold int
	openDuration     time.Duration
}

func newCircuitBreaker() *circuitBreaker {
	return &circuitBreaker{
		failures:         make(map[string]int),
		lastFailure:      make(map[string]time.Time),
		state:            make(map[string]circuitState),
		failureThreshold: 3,
		openDuration:     5 * time.Minute,
	}
}

// canAttempt reports whether a backend call for this domain is allowed.
func (cb *circuitBreaker) canAttempt(domain string) (bool, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state[domain] {
	case stateOpen:
		last := cb.lastFailure[domain]
		if time.Since(last) > cb.openDuration {
			cb.state[domain] = stateHalfOpen
			slog.Info("[RESOLVER-CIRCUIT] probing backend again", "domain", domain)
			return true, nil
		}
		return false, fmt.Errorf("%w: domain %q failing since %s",
			ErrBackendSkipped, domain, last.Format(time.RFC3339))
	default:
		return true, nil
	}
}

func (cb *circuitBreaker) recordSuccess(domain string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state[domain] != stateClosed {
		slog.Info("[RESOLVER-CIRCUIT] backend recovered", "domain", domain)
	}
	delete(cb.failures, domain)
	delete(cb.lastFailure, domain)
	cb.state[domain] = stateClosed
}

func (cb *circuitBreaker) recordFailure(domain string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[domain]++
	cb.lastFailure[domain] = time.Now()

	if cb.failures[domain] >= cb.failureThreshold {
		if cb.state[domain] != stateOpen {
			slog.Warn("[RESOLVER-CIRCUIT] opening circuit for domain",
				"domain", domain,
				"failures", cb.failures[domain],
				"error", err,
			)
		}
		cb.state[domain] = stateOpen
	}
}
