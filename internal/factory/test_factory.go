package factory

import (
	"time"

	"github.com/mcoot/wagerpong/internal/dependencies/mocks"
	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/services/balance"
	"github.com/mcoot/wagerpong/internal/storage/memory"
	"github.com/mcoot/wagerpong/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and the reported-balance provider
func NewTestApp() *TestApp {
	return NewTestAppWithProvider(nil)
}

// NewTestAppWithProvider creates a test App that looks balances up through provider
func NewTestAppWithProvider(provider balance.Provider) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.NewWithClock(mockClock, memory.DefaultBalanceTTL)

	app := newWithDependencies(store, mockClock, mockRandom, provider, model.DefaultGameConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
