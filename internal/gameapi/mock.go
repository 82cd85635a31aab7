package gameapi

import (
	"context"
	"sync"

	"github.com/jwebster45206/adventure-client/pkg/snapshot"
)

// MockGameService is a mock game service for testing
type MockGameService struct {
	StartFunc   func(ctx context.Context) (snapshot.Snapshot, error)
	CommandFunc func(ctx context.Context, command string) (snapshot.Snapshot, error)
	ResetFunc   func(ctx context.Context) (snapshot.Snapshot, error)

	// Track calls for testing
	StartCalls   int
	CommandCalls []string
	ResetCalls   int

	mu sync.Mutex // protects the call records above
}

// NewMockGameService creates a mock that answers every call with the
// initial snapshot.
func NewMockGameService() *MockGameService {
	return &MockGameService{
		CommandCalls: make([]string, 0),
	}
}

// Start mocks fetching the game state
func (m *MockGameService) Start(ctx context.Context) (snapshot.Snapshot, error) {
	m.mu.Lock()
	m.StartCalls++
	fn := m.StartFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return snapshot.Initial(), nil
}

// Command mocks submitting a command
func (m *MockGameService) Command(ctx context.Context, command string) (snapshot.Snapshot, error) {
	m.mu.Lock()
	m.CommandCalls = append(m.CommandCalls, command)
	fn := m.CommandFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, command)
	}
	return snapshot.Initial(), nil
}

// Reset mocks restarting the game
func (m *MockGameService) Reset(ctx context.Context) (snapshot.Snapshot, error) {
	m.mu.Lock()
	m.ResetCalls++
	fn := m.ResetFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return snapshot.Initial(), nil
}

// Calls returns the recorded call counts.
func (m *MockGameService) Calls() (start int, commands []string, reset int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StartCalls, append([]string{}, m.CommandCalls...), m.ResetCalls
}
