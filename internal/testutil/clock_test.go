package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestFixedClock_AdvancesByStep(t *testing.T) {
	clock := NewFixedClock(t0, time.Second)

	assert.Equal(t, t0, clock.Now())
	assert.Equal(t, t0.Add(time.Second), clock.Now())
	assert.Equal(t, t0.Add(2*time.Second), clock.Now())
	assert.Equal(t, 3, clock.Calls())
}

func TestFixedClock_ZeroStep(t *testing.T) {
	clock := NewFixedClock(t0, 0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, t0, clock.Now())
	}
}

func TestFixedClock_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	clock := NewFixedClock(t0.In(loc), 0)

	now := clock.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.True(t, now.Equal(t0))
}

func TestFixedClock_Reset(t *testing.T) {
	clock := NewFixedClock(t0, time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, 0, clock.Calls())
	assert.Equal(t, t0, clock.Now())
}

func TestFixedClock_ConcurrentAccess(t *testing.T) {
	clock := NewFixedClock(t0, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, clock.Calls())
}
