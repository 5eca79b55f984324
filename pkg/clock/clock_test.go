package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_Advance(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := Fake(start)

	assert.True(t, c.Now().Equal(start))

	c.Advance(5 * time.Minute)
	assert.True(t, c.Now().Equal(start.Add(5*time.Minute)))
}

func TestFakeClock_Set(t *testing.T) {
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	target := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Set(target)
	assert.True(t, c.Now().Equal(target))
}

func TestFakeClock_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fake(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.True(t, c.Now().Equal(start.Add(50*time.Second)))
}

func TestRealClock(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	assert.False(t, now.Before(before))
}
