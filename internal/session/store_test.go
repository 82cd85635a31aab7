package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-client/internal/gameapi"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

func newTestStore(idle time.Duration) (*Store, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(func() *viewstate.Controller {
		return viewstate.New(gameapi.NewMockGameService())
	}, idle)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStore_CreateAndGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	a := s.Create()
	b := s.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotSame(t, a.Controller, b.Controller)
	assert.False(t, a.Controller.Initialized())

	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = s.Get(uuid.New())
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStore_SweepsIdleSessions(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	old := s.Create()
	*now = now.Add(5 * time.Minute)
	fresh := s.Create()

	*now = now.Add(6 * time.Minute)
	s.Create() // sweeps old, 11 minutes idle

	_, ok := s.Get(old.ID)
	assert.False(t, ok)
	_, ok = s.Get(fresh.ID)
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStore_GetKeepsSessionAlive(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	sess := s.Create()
	*now = now.Add(8 * time.Minute)
	_, ok := s.Get(sess.ID)
	require.True(t, ok)

	*now = now.Add(8 * time.Minute)
	assert.Equal(t, 0, s.Sweep())
}

func TestStore_ZeroIdleTimeoutKeepsEverything(t *testing.T) {
	s, now := newTestStore(0)
	s.Create()
	*now = now.Add(24 * time.Hour)
	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 1, s.Len())
}
