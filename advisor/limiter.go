package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBudgetExhausted is returned by a Limited generator once its call budget
// has been spent.
var ErrBudgetExhausted = errors.New("model call budget exhausted")

// CallBudget caps the number of model calls made by the process. Several
// Limited generators may share one budget. A max of 0 allows unlimited calls.
type CallBudget struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewCallBudget creates a budget allowing max calls.
func NewCallBudget(max int) *CallBudget {
	return &CallBudget{max: max}
}

// Take reserves one call, failing once the budget is spent.
func (b *CallBudget) Take() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.count >= b.max {
		return fmt.Errorf("%w: %d calls", ErrBudgetExhausted, b.max)
	}
	b.count++
	return nil
}

// Count returns the number of calls reserved so far.
func (b *CallBudget) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}

// Remaining returns how many calls are left, or -1 when unlimited.
func (b *CallBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max == 0 {
		return -1
	}
	return b.max - b.count
}

// Limited charges every call to next against a shared budget.
type Limited struct {
	next   Generator
	budget *CallBudget
}

// NewLimited wraps next. A nil budget leaves next unlimited.
func NewLimited(next Generator, budget *CallBudget) *Limited {
	if budget == nil {
		budget = NewCallBudget(0)
	}
	return &Limited{next: next, budget: budget}
}

// Generate implements Generator.
func (l *Limited) Generate(ctx context.Context, req Request) (Result, error) {
	if err := l.budget.Take(); err != nil {
		return Result{}, err
	}
	return l.next.Generate(ctx, req)
}
