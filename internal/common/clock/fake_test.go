package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFake_Advance_FiresDueTimersInOrder(t *testing.T) {
	req := require.New(t)
	start := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	c := NewFake(start)

	var fired []string
	c.AfterFunc(3*time.Second, func() { fired = append(fired, "late") })
	c.AfterFunc(1*time.Second, func() { fired = append(fired, "early") })

	c.Advance(2 * time.Second)
	req.Equal([]string{"early"}, fired)
	req.Equal(1, c.Pending())

	c.Advance(time.Second)
	req.Equal([]string{"early", "late"}, fired)
	req.Equal(start.Add(3*time.Second), c.Now())
}

func TestFake_Stop_PreventsCallback(t *testing.T) {
	req := require.New(t)
	c := NewFake(time.Time{})

	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	req.True(timer.Stop())
	req.False(timer.Stop())

	c.Advance(time.Minute)
	req.False(called)
	req.Zero(c.Pending())
}

func TestFake_Advance_FiresTimersScheduledByCallbacks(t *testing.T) {
	req := require.New(t)
	c := NewFake(time.Time{})

	count := 0
	c.AfterFunc(time.Second, func() {
		count++
		c.AfterFunc(time.Second, func() { count++ })
	})

	c.Advance(2 * time.Second)
	req.Equal(2, count)
}
