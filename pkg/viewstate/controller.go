// Package viewstate owns the client's copy of the game state and the only
// transitions that may change it.
package viewstate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/jwebster45206/adventure-client/pkg/actions"
	"github.com/jwebster45206/adventure-client/pkg/snapshot"
	"github.com/jwebster45206/adventure-client/pkg/view"
)

var (
	// ErrGameOver is returned by SubmitCommand when the game has ended.
	// No request is made; callers normally ignore it.
	ErrGameOver = errors.New("game is over")

	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("controller already initialized")

	// ErrEmptyCommand is returned for blank commands.
	ErrEmptyCommand = errors.New("empty command")
)

// GameService is the remote game the controller reads state from.
type GameService interface {
	Start(ctx context.Context) (snapshot.Snapshot, error)
	Command(ctx context.Context, command string) (snapshot.Snapshot, error)
	Reset(ctx context.Context) (snapshot.Snapshot, error)
}

// Mode is the controller's only state switch.
type Mode int

const (
	ModeAccepting Mode = iota
	ModeGameOver
)

func (m Mode) String() string {
	if m == ModeGameOver {
		return "game_over"
	}
	return "accepting"
}

// Controller holds the latest snapshot. It is safe for concurrent use;
// requests run without the lock held, so overlapping calls race on the wire.
type Controller struct {
	service    GameService
	logger     *slog.Logger
	staleGuard bool

	mu          sync.Mutex
	current     snapshot.Snapshot
	lastErr     error
	initialized bool
	issued      uint64 // sequence number of the newest request sent
	applied     uint64 // sequence number of the snapshot in current
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithStaleGuard toggles discarding of responses that were overtaken by a
// newer one. On by default.
func WithStaleGuard(enabled bool) Option {
	return func(c *Controller) {
		c.staleGuard = enabled
	}
}

// New creates a controller holding the initial snapshot.
func New(service GameService, opts ...Option) *Controller {
	c := &Controller{
		service:    service,
		logger:     slog.Default(),
		staleGuard: true,
		current:    snapshot.Initial(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads the starting snapshot. It runs once per controller.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.initialized = true
	c.mu.Unlock()

	return c.fetch(ctx, "start", c.service.Start)
}

// SubmitCommand sends a command unless the game is over. The command is
// sent exactly as given; callers trim free-form input themselves.
func (c *Controller) SubmitCommand(ctx context.Context, command string) error {
	switch c.Mode() {
	case ModeGameOver:
		c.logger.Debug("Command suppressed, game is over", "command", command)
		return ErrGameOver
	default:
		if strings.TrimSpace(command) == "" {
			return ErrEmptyCommand
		}
		c.logger.Info("Submitting command", "command", command)
		return c.fetch(ctx, "command", func(ctx context.Context) (snapshot.Snapshot, error) {
			return c.service.Command(ctx, command)
		})
	}
}

// Reset restarts the game. It is allowed in every mode.
func (c *Controller) Reset(ctx context.Context) error {
	return c.fetch(ctx, "reset", c.service.Reset)
}

// Submit runs an offered action.
func (c *Controller) Submit(ctx context.Context, a actions.Action) error {
	return c.SubmitCommand(ctx, a.Command)
}

func (c *Controller) fetch(ctx context.Context, op string, call func(context.Context) (snapshot.Snapshot, error)) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	s, err := call(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	stale := c.staleGuard && seq < c.applied

	if err != nil {
		c.logger.Error("Game service request failed", "op", op, "seq", seq, "error", err)
		if !stale {
			c.lastErr = err
		}
		return err
	}

	if stale {
		c.logger.Debug("Discarding stale response", "op", op, "seq", seq, "applied", c.applied)
		return nil
	}

	c.current = s.Clone()
	c.applied = seq
	c.lastErr = nil
	c.logger.Debug("Applied snapshot", "op", op, "seq", seq, "game_over", s.GameOver)
	return nil
}

// Snapshot returns a copy of the held snapshot.
func (c *Controller) Snapshot() snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// View returns the presentational state for the held snapshot.
func (c *Controller) View() view.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return view.Derive(c.current)
}

// Mode reports whether commands are accepted.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current.GameOver {
		return ModeGameOver
	}
	return ModeAccepting
}

// LastError returns the most recent request failure, cleared by the next
// applied snapshot.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Initialized reports whether Initialize has been called.
func (c *Controller) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}
