package retry_test

import (
	"testing"
	"time"

	"github.com/MichalMitros/product-sync/internal/retry"
	"github.com/stretchr/testify/assert"
)

func TestUnitBackoffDelay(t *testing.T) {
	tests := map[string]struct {
		backoff retry.Backoff
		attempt int
		want    time.Duration
	}{
		"first attempt": {
			backoff: retry.Backoff{Base: time.Minute, Cap: time.Hour},
			attempt: 0,
			want:    time.Minute,
		},
		"third failure": {
			backoff: retry.Backoff{Base: time.Minute, Cap: time.Hour},
			attempt: 3,
			want:    8 * time.Minute,
		},
		"capped": {
			backoff: retry.Backoff{Base: time.Minute, Cap: time.Hour},
			attempt: 7,
			want:    time.Hour,
		},
		"huge attempt stays capped": {
			backoff: retry.DefaultBackoff(),
			attempt: 1_000,
			want:    retry.DefaultCap,
		},
		"negative attempt": {
			backoff: retry.Backoff{Base: time.Minute, Cap: time.Hour},
			attempt: -2,
			want:    time.Minute,
		},
		"zero base": {
			backoff: retry.Backoff{Cap: time.Hour},
			attempt: 4,
			want:    0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.backoff.Delay(tt.attempt))
		})
	}
}

func TestUnitBackoffNextMonotonic(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	backoff := retry.Backoff{Base: 60 * time.Second, Cap: time.Hour}

	prev := now
	reachedCap := false
	for attempt := range 12 {
		next := backoff.Next(now, attempt)

		if reachedCap {
			assert.Equal(t, prev, next, "should stay constant after reaching cap")
		} else {
			assert.True(t, next.After(prev), "should strictly increase until cap")
		}

		reachedCap = next.Sub(now) == backoff.Cap
		prev = next
	}

	assert.True(t, reachedCap, "should reach cap")
	assert.Equal(t, now.Add(480*time.Second), backoff.Next(now, 3), "should wait 60s*2^3")
}

func TestUnitExhausted(t *testing.T) {
	assert.False(t, retry.Exhausted(5, 5), "shouldn't be exhausted at ceiling")
	assert.True(t, retry.Exhausted(6, 5), "should be exhausted above ceiling")
}
