package timer

import (
	"testing"
	"time"

	"glitchchess/src/testutil"
)

func TestCountdownFiresOnce(t *testing.T) {
	c := New(2 * time.Second)
	testutil.AssertEqual(t, c.Seconds(), 2)

	testutil.AssertFalse(t, c.Tick(300*time.Millisecond))
	testutil.AssertEqual(t, c.Seconds(), 2, "1.7s shows as 2")
	testutil.AssertFalse(t, c.Tick(time.Second))
	testutil.AssertEqual(t, c.Seconds(), 1)

	testutil.AssertTrue(t, c.Tick(time.Second))
	testutil.AssertTrue(t, c.Expired())
	testutil.AssertEqual(t, c.Remaining(), time.Duration(0))
	testutil.AssertFalse(t, c.Tick(time.Second), "fires only once")
}

func TestCountdownStopAndReset(t *testing.T) {
	c := New(time.Second)
	c.Tick(400 * time.Millisecond)
	c.Stop()
	testutil.AssertFalse(t, c.Tick(time.Hour))
	testutil.AssertEqual(t, c.Remaining(), 600*time.Millisecond)

	c.Reset()
	testutil.AssertFalse(t, c.Stopped())
	testutil.AssertEqual(t, c.Remaining(), time.Second)
	testutil.AssertTrue(t, c.Tick(time.Second))
}

func TestDisabledCountdown(t *testing.T) {
	c := New(0)
	testutil.AssertFalse(t, c.Enabled())
	testutil.AssertFalse(t, c.Tick(time.Hour))
	testutil.AssertEqual(t, c.Seconds(), 0)
}
