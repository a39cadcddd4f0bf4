package infra

import (
	"log"
	"strings"
	"time"
)

// DialPolicy is the shared connection policy for remote backends: bounded
// retries with doubling delay, and a loopback fallback when the configured
// host is the generic local hostname. Every call site that opens a
// connection goes through Do instead of rolling its own loop.
type DialPolicy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

func DefaultDialPolicy() DialPolicy {
	return DialPolicy{
		Attempts: 10,
		Delay:    time.Second,
		MaxDelay: 8 * time.Second,
	}
}

// Targets expands a target string into the list of candidates to try.
// "localhost" additionally gets 127.0.0.1 substituted, matching deployments
// where the local hostname does not resolve inside the container.
func (p DialPolicy) Targets(target string) []string {
	targets := []string{target}
	if strings.Contains(target, "localhost") {
		targets = append(targets, strings.Replace(target, "localhost", "127.0.0.1", 1))
	}
	return targets
}

// Do runs connect against each candidate target until one succeeds,
// retrying each up to Attempts times. The last error is returned when every
// candidate is exhausted.
func (p DialPolicy) Do(target string, connect func(target string) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for _, candidate := range p.Targets(target) {
		delay := p.Delay
		for i := 0; i < attempts; i++ {
			err := connect(candidate)
			if err == nil {
				return nil
			}
			lastErr = err
			log.Printf("Connection attempt %d/%d to %s failed: %v", i+1, attempts, candidate, err)
			time.Sleep(delay)
			if delay < p.MaxDelay {
				delay *= 2
				if delay > p.MaxDelay {
					delay = p.MaxDelay
				}
			}
		}
	}
	return lastErr
}
