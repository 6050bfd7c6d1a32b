package gate

import (
	"context"
	"errors"
	"sync"

	"github.com/neu-balayan/pageantscore/internal/model"
)

// Errors
var (
	ErrInvalidTransition    = errors.New("invalid gate transition")
	ErrVerificationInFlight = errors.New("verification already in progress")
	ErrStaleResolution      = errors.New("gate dismissed during verification")
)

// Messages retained on the gate after a failed submit
const (
	MessageMissingInput       = "Enter username and password"
	MessageInvalidCredentials = "Invalid credentials"
)

// State is a position in the administrator login flow
type State string

const (
	StateClosed              State = "closed"
	StateAwaitingCredentials State = "awaiting_credentials"
	StateVerifying           State = "verifying"
	StateAuthenticated       State = "authenticated"
)

// Verifier resolves a credential check asynchronously
type Verifier interface {
	VerifyAsync(ctx context.Context, identifier, secret string) <-chan bool
}

// Gate is the administrator login state machine. Each gate handles one
// login flow; a dismissed gate ignores verification results that arrive late.
type Gate struct {
	verifier Verifier

	mu         sync.Mutex
	state      State
	message    string
	generation uint64
}

// New creates a closed Gate
func New(verifier Verifier) *Gate {
	return &Gate{
		verifier: verifier,
		state:    StateClosed,
	}
}

// State returns the current state
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Message returns the error message shown with the login form, if any
func (g *Gate) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// Open moves a closed gate to awaiting credentials
func (g *Gate) Open() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateClosed:
		g.state = StateAwaitingCredentials
		g.message = ""
		return nil
	case StateAwaitingCredentials:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Submit verifies a login attempt. It blocks until the verification resolves
// or ctx is done. Only one verification may be in flight per gate.
func (g *Gate) Submit(ctx context.Context, attempt model.LoginAttempt) error {
	g.mu.Lock()
	switch g.state {
	case StateAwaitingCredentials:
	case StateVerifying:
		g.mu.Unlock()
		return ErrVerificationInFlight
	default:
		g.mu.Unlock()
		return ErrInvalidTransition
	}

	if !attempt.Complete() {
		g.message = MessageMissingInput
		g.mu.Unlock()
		return model.ErrMissingInput
	}

	g.state = StateVerifying
	g.generation++
	gen := g.generation
	g.mu.Unlock()

	ok, resolved := <-g.verifier.VerifyAsync(ctx, attempt.Identifier, attempt.Secret)

	g.mu.Lock()
	defer g.mu.Unlock()

	// Cancelled (and possibly reopened) while we were waiting
	if g.generation != gen || g.state != StateVerifying {
		return ErrStaleResolution
	}

	if !resolved {
		g.state = StateAwaitingCredentials
		return ctx.Err()
	}

	if ok {
		g.state = StateAuthenticated
		g.message = ""
		return nil
	}

	g.state = StateAwaitingCredentials
	g.message = MessageInvalidCredentials
	return model.ErrInvalidCredentials
}

// Cancel dismisses the login form. Any verification in flight is discarded.
func (g *Gate) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateAwaitingCredentials, StateVerifying:
		g.state = StateClosed
		g.message = ""
		g.generation++
		return nil
	case StateClosed:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Logout closes an authenticated gate
func (g *Gate) Logout() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAuthenticated {
		return ErrInvalidTransition
	}
	g.state = StateClosed
	return nil
}
