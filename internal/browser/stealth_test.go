package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomDelayStaysWithinBounds(t *testing.T) {
	for i := 0; i < 5; i++ {
		start := time.Now()
		RandomDelay(20, 60)
		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
		// generous ceiling; the scheduler may add a little on top
		assert.Less(t, elapsed, 500*time.Millisecond)
	}
}

func TestRandomDelayDegenerateRangeSleepsMin(t *testing.T) {
	start := time.Now()
	RandomDelay(30, 30)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	start = time.Now()
	RandomDelay(30, 10)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
