package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequester_CoalescesBurstIntoOneSync(t *testing.T) {
	rem := newFakeRemote()
	engine, _ := newTestEngine(t, rem)

	req := NewRequester(engine, 20*time.Millisecond, nil)
	defer req.Stop()

	for i := 0; i < 10; i++ {
		req.RequestSync()
	}

	assert.Eventually(t, func() bool {
		return rem.pullCount() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, rem.pullCount())
}

func TestRequester_SecondRequestAfterWindowRunsAgain(t *testing.T) {
	rem := newFakeRemote()
	engine, _ := newTestEngine(t, rem)

	req := NewRequester(engine, 20*time.Millisecond, nil)
	defer req.Stop()

	req.RequestSync()
	assert.Eventually(t, func() bool { return rem.pullCount() == 1 }, time.Second, 5*time.Millisecond)

	req.RequestSync()
	assert.Eventually(t, func() bool { return rem.pullCount() == 2 }, time.Second, 5*time.Millisecond)
}

func TestRequester_StopCancelsPendingSync(t *testing.T) {
	rem := newFakeRemote()
	engine, _ := newTestEngine(t, rem)

	req := NewRequester(engine, 20*time.Millisecond, nil)
	req.RequestSync()
	req.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, rem.pullCount())

	// Idempotent.
	req.Stop()
}
