package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManualClockOnlyMovesForward(t *testing.T) {
	clock := NewManualClock(100)
	assert.Equal(t, int64(100), clock.Now())

	clock.Advance(5)
	assert.Equal(t, int64(105), clock.Now())

	clock.Advance(-10)
	assert.Equal(t, int64(105), clock.Now())

	clock.Set(50)
	assert.Equal(t, int64(105), clock.Now())

	clock.Set(200)
	assert.Equal(t, int64(200), clock.Now())
}

func TestSystemClockIsNonDecreasing(t *testing.T) {
	clock := NewSystemClock()

	prev := clock.Now()
	for i := 0; i < 100; i++ {
		now := clock.Now()
		assert.GreaterOrEqual(t, now, prev)
		prev = now
	}
}
