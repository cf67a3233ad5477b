package retry

import (
	"math"
	"time"
)

const (
	// DefaultBase is default delay after first record failure.
	DefaultBase = time.Hour
	// DefaultCap is default upper bound of record retry delay.
	DefaultCap = 24 * time.Hour
	// DefaultRecordMaxRetries is default record retry ceiling.
	DefaultRecordMaxRetries = 5
	// DefaultJobMaxRetries is default job retry ceiling.
	DefaultJobMaxRetries = 3
	// DefaultJobDelay is default fixed delay between job attempts.
	DefaultJobDelay = time.Minute
)

// Backoff is capped exponential backoff.
type Backoff struct {
	Base time.Duration
	Cap  time.Duration
}

// DefaultBackoff returns backoff with default base and cap.
func DefaultBackoff() Backoff {
	return Backoff{Base: DefaultBase, Cap: DefaultCap}
}

// Delay returns min(Base * 2^attempt, Cap). Negative attempt is treated as 0.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	if b.Base <= 0 {
		return 0
	}

	delay := b.Base
	for range attempt {
		if b.Cap > 0 && delay >= b.Cap {
			return b.Cap
		}
		if delay > math.MaxInt64/2 {
			return time.Duration(math.MaxInt64)
		}
		delay *= 2
	}

	if b.Cap > 0 && delay > b.Cap {
		return b.Cap
	}

	return delay
}

// Next returns time of next attempt after attempt-th consecutive failure.
func (b Backoff) Next(now time.Time, attempt int) time.Time {
	return now.Add(b.Delay(attempt))
}

// Policy holds independent record-level and job-level retry settings.
type Policy struct {
	Record           Backoff
	RecordMaxRetries int
	JobMaxRetries    int
	JobDelay         time.Duration
}

// DefaultPolicy returns policy with default settings.
func DefaultPolicy() Policy {
	return Policy{
		Record:           DefaultBackoff(),
		RecordMaxRetries: DefaultRecordMaxRetries,
		JobMaxRetries:    DefaultJobMaxRetries,
		JobDelay:         DefaultJobDelay,
	}
}

// Exhausted reports whether record failing retryCount times exceeded its ceiling.
func Exhausted(retryCount, maxRetries int) bool {
	return retryCount > maxRetries
}
