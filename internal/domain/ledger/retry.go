package ledger

import (
	"math/rand"
	"time"
)

// Retry shape for a ledger commit that hits a transient storage failure:
// exponential backoff doubling the base delay per attempt, with jitter to
// keep concurrent retries from landing on the database in lockstep.
const (
	maxCommitRetries = 3
	retryBackoffBase = 50 * time.Millisecond
	retryJitterFrac  = 0.25
)

// retryBackoff returns the delay before retry attempt n (0-indexed),
// doubling retryBackoffBase each attempt and spreading it by
// retryJitterFrac in either direction.
func retryBackoff(attempt int) time.Duration {
	backoff := retryBackoffBase * time.Duration(1<<uint(attempt))
	spread := float64(backoff) * retryJitterFrac
	offset := (rand.Float64()*2 - 1) * spread
	return backoff + time.Duration(offset)
}
