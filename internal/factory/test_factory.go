package factory

import (
	"time"

	"github.com/neu-balayan/pageantscore/internal/dependencies/mocks"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
	"github.com/neu-balayan/pageantscore/internal/services/credential"
	"github.com/neu-balayan/pageantscore/internal/storage/memory"
	"github.com/neu-balayan/pageantscore/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The administrator credentials are testutil.AdminUsername/AdminPassword.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	verifier, err := credential.New(testutil.CredentialReference())
	if err != nil {
		panic(err)
	}

	app := newWithDependencies(store, verifier, mockClock, mockRandom, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
