package gate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/neu-balayan/pageantscore/internal/model"
)

// stubVerifier hands out a channel the test resolves by hand
type stubVerifier struct {
	results chan bool
	calls   atomic.Int32
}

func (v *stubVerifier) VerifyAsync(_ context.Context, _, _ string) <-chan bool {
	v.calls.Add(1)
	return v.results
}

type GateSuite struct {
	suite.Suite
	verifier *stubVerifier
	gate     *Gate
	ctx      context.Context
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.verifier = &stubVerifier{results: make(chan bool)}
	s.gate = New(s.verifier)
	s.ctx = context.Background()
}

// submitAsync starts a submit in the background and waits until the gate is verifying
func (s *GateSuite) submitAsync(attempt model.LoginAttempt) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.gate.Submit(s.ctx, attempt)
	}()
	s.Require().Eventually(func() bool {
		return s.gate.State() == StateVerifying
	}, time.Second, time.Millisecond)
	return errCh
}

func (s *GateSuite) resolve(ok bool) {
	select {
	case s.verifier.results <- ok:
	case <-time.After(time.Second):
		s.FailNow("nobody waiting for verification result")
	}
}

func (s *GateSuite) wait(errCh <-chan error) error {
	select {
	case err := <-errCh:
		return err
	case <-time.After(time.Second):
		s.FailNow("submit did not return")
		return nil
	}
}

var validAttempt = model.LoginAttempt{Identifier: "admin", Secret: "secret"}

// Open tests

func (s *GateSuite) TestNewGateIsClosed() {
	s.Equal(StateClosed, s.gate.State())
	s.Empty(s.gate.Message())
}

func (s *GateSuite) TestOpenMovesToAwaiting() {
	s.Require().NoError(s.gate.Open())
	s.Equal(StateAwaitingCredentials, s.gate.State())
}

func (s *GateSuite) TestOpenTwiceIsNoop() {
	s.Require().NoError(s.gate.Open())
	s.NoError(s.gate.Open())
	s.Equal(StateAwaitingCredentials, s.gate.State())
}

// Submit tests

func (s *GateSuite) TestSubmitOnClosedGateFails() {
	err := s.gate.Submit(s.ctx, validAttempt)
	s.ErrorIs(err, ErrInvalidTransition)
	s.Zero(s.verifier.calls.Load())
}

func (s *GateSuite) TestSubmitMissingInputStaysAwaiting() {
	_ = s.gate.Open()

	for _, attempt := range []model.LoginAttempt{
		{Identifier: "", Secret: "secret"},
		{Identifier: "admin", Secret: ""},
		{},
	} {
		err := s.gate.Submit(s.ctx, attempt)
		s.ErrorIs(err, model.ErrMissingInput)
		s.Equal(StateAwaitingCredentials, s.gate.State())
		s.Equal(MessageMissingInput, s.gate.Message())
	}
	s.Zero(s.verifier.calls.Load())
}

func (s *GateSuite) TestSubmitSuccessAuthenticates() {
	_ = s.gate.Open()

	errCh := s.submitAsync(validAttempt)
	s.resolve(true)

	s.NoError(s.wait(errCh))
	s.Equal(StateAuthenticated, s.gate.State())
	s.Empty(s.gate.Message())
}

func (s *GateSuite) TestSubmitFailureReturnsToAwaitingWithMessage() {
	_ = s.gate.Open()

	errCh := s.submitAsync(validAttempt)
	s.resolve(false)

	s.ErrorIs(s.wait(errCh), model.ErrInvalidCredentials)
	s.Equal(StateAwaitingCredentials, s.gate.State())
	s.Equal(MessageInvalidCredentials, s.gate.Message())
}

func (s *GateSuite) TestRetriesAreUnlimited() {
	_ = s.gate.Open()

	for range 10 {
		errCh := s.submitAsync(validAttempt)
		s.resolve(false)
		s.ErrorIs(s.wait(errCh), model.ErrInvalidCredentials)
	}

	errCh := s.submitAsync(validAttempt)
	s.resolve(true)
	s.NoError(s.wait(errCh))
	s.Equal(StateAuthenticated, s.gate.State())
}

func (s *GateSuite) TestConcurrentSubmitIsRejected() {
	_ = s.gate.Open()

	errCh := s.submitAsync(validAttempt)

	err := s.gate.Submit(s.ctx, validAttempt)
	s.ErrorIs(err, ErrVerificationInFlight)

	s.resolve(true)
	s.NoError(s.wait(errCh))
	s.Equal(int32(1), s.verifier.calls.Load())
}

func (s *GateSuite) TestSubmitContextCancelledReturnsToAwaiting() {
	s.verifier.results = make(chan bool)
	close(s.verifier.results)
	_ = s.gate.Open()

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := s.gate.Submit(ctx, validAttempt)
	s.ErrorIs(err, context.Canceled)
	s.Equal(StateAwaitingCredentials, s.gate.State())
}

// Cancel tests

func (s *GateSuite) TestCancelFromAwaitingCloses() {
	_ = s.gate.Open()
	_ = s.gate.Submit(s.ctx, model.LoginAttempt{})

	s.Require().NoError(s.gate.Cancel())
	s.Equal(StateClosed, s.gate.State())
	s.Empty(s.gate.Message())
}

func (s *GateSuite) TestCancelDuringVerificationDiscardsResult() {
	_ = s.gate.Open()

	errCh := s.submitAsync(validAttempt)
	s.Require().NoError(s.gate.Cancel())
	s.resolve(true)

	s.ErrorIs(s.wait(errCh), ErrStaleResolution)
	s.Equal(StateClosed, s.gate.State())
}

func (s *GateSuite) TestReopenDuringVerificationIgnoresOldResult() {
	_ = s.gate.Open()

	errCh := s.submitAsync(validAttempt)
	s.Require().NoError(s.gate.Cancel())
	s.Require().NoError(s.gate.Open())
	s.resolve(true)

	s.ErrorIs(s.wait(errCh), ErrStaleResolution)
	s.Equal(StateAwaitingCredentials, s.gate.State())
}

func (s *GateSuite) TestCancelAfterAuthenticationFails() {
	_ = s.gate.Open()
	errCh := s.submitAsync(validAttempt)
	s.resolve(true)
	s.Require().NoError(s.wait(errCh))

	s.ErrorIs(s.gate.Cancel(), ErrInvalidTransition)
}

// Logout tests

func (s *GateSuite) TestLogoutClosesAuthenticatedGate() {
	_ = s.gate.Open()
	errCh := s.submitAsync(validAttempt)
	s.resolve(true)
	s.Require().NoError(s.wait(errCh))

	s.Require().NoError(s.gate.Logout())
	s.Equal(StateClosed, s.gate.State())
}

func (s *GateSuite) TestLogoutRequiresAuthentication() {
	_ = s.gate.Open()
	s.ErrorIs(s.gate.Logout(), ErrInvalidTransition)
}
