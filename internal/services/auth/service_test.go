package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/neu-balayan/pageantscore/internal/dependencies/mocks"
	"github.com/neu-balayan/pageantscore/internal/dependencies/random"
	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/services/credential"
	"github.com/neu-balayan/pageantscore/internal/services/gate"
	"github.com/neu-balayan/pageantscore/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	verifier, err := credential.New(testutil.CredentialReference())
	s.Require().NoError(err)

	s.clock = mocks.NewMockClock(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	s.service = New(verifier, s.clock, random.New(), DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) login() *Session {
	session, err := s.service.Login(s.ctx, testutil.AdminUsername, testutil.AdminPassword)
	s.Require().NoError(err)
	return session
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	session := s.login()

	s.NotEmpty(session.Token)
	s.Equal(testutil.AdminUsername, session.Username)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, err := s.service.Login(s.ctx, testutil.AdminUsername, "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithWrongUsername() {
	_, err := s.service.Login(s.ctx, "Admin", testutil.AdminPassword)
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginMissingInput() {
	_, err := s.service.Login(s.ctx, "", testutil.AdminPassword)
	s.ErrorIs(err, model.ErrMissingInput)

	_, err = s.service.Login(s.ctx, testutil.AdminUsername, "")
	s.ErrorIs(err, model.ErrMissingInput)
}

func (s *ServiceSuite) TestLoginSessionsAreDistinct() {
	a := s.login()
	b := s.login()
	s.NotEqual(a.Token, b.Token)
}

// Login form tests

func (s *ServiceSuite) TestBeginLoginOpensForm() {
	token := s.service.BeginLogin()

	state, msg, err := s.service.LoginState(token)
	s.Require().NoError(err)
	s.Equal(gate.StateAwaitingCredentials, state)
	s.Empty(msg)
}

func (s *ServiceSuite) TestSubmitLoginSucceedsAndDiscardsForm() {
	token := s.service.BeginLogin()

	session, err := s.service.SubmitLogin(s.ctx, token, testutil.AdminUsername, testutil.AdminPassword)
	s.Require().NoError(err)
	s.Equal(testutil.AdminUsername, session.Username)

	_, _, err = s.service.LoginState(token)
	s.ErrorIs(err, ErrUnknownGate)
}

func (s *ServiceSuite) TestSubmitLoginFailureKeepsFormWithMessage() {
	token := s.service.BeginLogin()

	_, err := s.service.SubmitLogin(s.ctx, token, testutil.AdminUsername, "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)

	state, msg, err := s.service.LoginState(token)
	s.Require().NoError(err)
	s.Equal(gate.StateAwaitingCredentials, state)
	s.Equal(gate.MessageInvalidCredentials, msg)

	// Retry on the same form succeeds
	_, err = s.service.SubmitLogin(s.ctx, token, testutil.AdminUsername, testutil.AdminPassword)
	s.NoError(err)
}

func (s *ServiceSuite) TestSubmitLoginMissingInputMessage() {
	token := s.service.BeginLogin()

	_, err := s.service.SubmitLogin(s.ctx, token, "", "")
	s.ErrorIs(err, model.ErrMissingInput)

	_, msg, _ := s.service.LoginState(token)
	s.Equal(gate.MessageMissingInput, msg)
}

func (s *ServiceSuite) TestSubmitLoginUnknownForm() {
	_, err := s.service.SubmitLogin(s.ctx, "gate_nope", testutil.AdminUsername, testutil.AdminPassword)
	s.ErrorIs(err, ErrUnknownGate)
}

func (s *ServiceSuite) TestCancelLoginDiscardsForm() {
	token := s.service.BeginLogin()
	s.service.CancelLogin(token)

	_, err := s.service.SubmitLogin(s.ctx, token, testutil.AdminUsername, testutil.AdminPassword)
	s.ErrorIs(err, ErrUnknownGate)
}

func (s *ServiceSuite) TestCancelLoginUnknownIsNoop() {
	s.service.CancelLogin("gate_unknown")
}

func (s *ServiceSuite) TestLoginFormExpires() {
	token := s.service.BeginLogin()
	s.clock.Advance(31 * time.Minute)

	_, err := s.service.SubmitLogin(s.ctx, token, testutil.AdminUsername, testutil.AdminPassword)
	s.ErrorIs(err, ErrUnknownGate)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session := s.login()

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session := s.login()

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session := s.login()

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	// Should not panic
	s.service.InvalidateSession("unknown_token")
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	session1 := s.login()
	staleForm := s.service.BeginLogin()

	// Advance time so session1 and the form expire
	s.clock.Advance(25 * time.Hour)

	session2 := s.login()
	freshForm := s.service.BeginLogin()

	s.service.CleanExpiredSessions()

	_, err := s.service.ValidateSession(session1.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(session2.Token)
	s.NoError(err)

	_, _, err = s.service.LoginState(staleForm)
	s.ErrorIs(err, ErrUnknownGate)
	_, _, err = s.service.LoginState(freshForm)
	s.NoError(err)
}

func (s *ServiceSuite) TestLoginAttemptsAreLoggedWithoutSecret() {
	verifier, err := credential.New(testutil.CredentialReference())
	s.Require().NoError(err)
	logger, logs := testutil.RecordingLogger()
	service := New(verifier, s.clock, random.New(), DefaultConfig(), logger)

	_, err = service.Login(s.ctx, testutil.AdminUsername, "hunter2")
	s.Require().Error(err)
	_, err = service.Login(s.ctx, testutil.AdminUsername, testutil.AdminPassword)
	s.Require().NoError(err)

	entries := logs.Entries()
	s.Require().Len(entries, 2)
	s.Equal("admin login rejected", entries[0]["msg"])
	s.Equal("admin login accepted", entries[1]["msg"])
	for _, e := range entries {
		s.Equal("auth", e["component"])
		s.Equal(testutil.AdminUsername, e["username"])
	}
	s.NotContains(logs.String(), "hunter2")
	s.NotContains(logs.String(), testutil.AdminPassword)
}
