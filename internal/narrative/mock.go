package narrative

import (
	"context"
	"fmt"
	"sync"

	"github.com/hooch88/justicar/pkg/intent"
)

// Mock is a test double for Generator and intent.Classifier. Behavior is
// pluggable through the Func fields; calls are tracked for assertions.
type Mock struct {
	GenerateFunc func(ctx context.Context, pctx PromptContext) (*Result, error)
	ClassifyFunc func(ctx context.Context, rawText string, ictx intent.Context) (intent.Intent, error)
	HealthyFunc  func(ctx context.Context) error

	GenerateCalls []PromptContext
	ClassifyCalls []string

	mu sync.Mutex
}

var (
	_ Generator         = (*Mock)(nil)
	_ intent.Classifier = (*Mock)(nil)
)

// NewMock creates a mock provider with canned defaults.
func NewMock() *Mock {
	return &Mock{}
}

// Generate records the call and runs GenerateFunc, or returns a canned
// narration keyed to the prompt kind.
func (m *Mock) Generate(ctx context.Context, pctx PromptContext) (*Result, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, pctx)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, pctx)
	}

	switch pctx.Kind {
	case PromptOpening:
		return &Result{Text: fmt.Sprintf("The story of %s begins.", pctx.Snapshot.Name)}, nil
	case PromptSituation:
		return &Result{Text: fmt.Sprintf("%s surveys %s, weighing what to do next.",
			pctx.CharacterName, pctx.Snapshot.Location)}, nil
	default:
		return &Result{Text: "The world responds to the action."}, nil
	}
}

// ClassifyAction records the call and runs ClassifyFunc, defaulting to a
// free action.
func (m *Mock) ClassifyAction(ctx context.Context, rawText string, ictx intent.Context) (intent.Intent, error) {
	m.mu.Lock()
	m.ClassifyCalls = append(m.ClassifyCalls, rawText)
	fn := m.ClassifyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, rawText, ictx)
	}
	return intent.FreeAction(rawText), nil
}

// Healthy runs HealthyFunc or succeeds.
func (m *Mock) Healthy(ctx context.Context) error {
	if m.HealthyFunc != nil {
		return m.HealthyFunc(ctx)
	}
	return nil
}

// SetGenerateError makes every Generate call fail with err.
func (m *Mock) SetGenerateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(context.Context, PromptContext) (*Result, error) {
		return nil, err
	}
}

// GenerateCallCount returns the number of Generate invocations.
func (m *Mock) GenerateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// Reset clears call tracking.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls = nil
	m.ClassifyCalls = nil
}
