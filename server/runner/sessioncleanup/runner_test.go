package sessioncleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcorat/araliya-bot/store"
)

func TestRunOnceEvictsIdleSessions(t *testing.T) {
	s := store.NewSessionStore(20)
	s.CreateSession("idle")
	time.Sleep(5 * time.Millisecond)

	r := NewRunner(s, time.Minute, time.Millisecond)
	r.RunOnce(context.Background())

	assert.False(t, s.SessionExists("idle"))
	assert.Equal(t, 0, s.ActiveSessionCount())
}

func TestRunOnceKeepsActiveSessions(t *testing.T) {
	s := store.NewSessionStore(20)
	s.CreateSession("busy")

	r := NewRunner(s, time.Minute, time.Hour)
	r.RunOnce(context.Background())

	assert.True(t, s.SessionExists("busy"))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := store.NewSessionStore(20)
	r := NewRunner(s, time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}

func TestRunSweepsPeriodically(t *testing.T) {
	s := store.NewSessionStore(20)
	s.CreateSession("idle")
	time.Sleep(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(s, 10*time.Millisecond, time.Millisecond)
	go r.Run(ctx)

	require.Eventually(t, func() bool {
		return s.ActiveSessionCount() == 0
	}, time.Second, 5*time.Millisecond)
}
