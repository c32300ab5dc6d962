package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when two checkers register under the
// same name.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by adapters that can report whether they
// are usable. The quote store pings its database; the Wikipedia adapter
// reports its circuit breaker state.
type HealthChecker interface {
	// Name identifies the component in readiness responses.
	Name() string

	// Check returns nil when the component is healthy. Implementations
	// honor the context deadline.
	Check(ctx context.Context) error
}

// HealthRegistry collects the checkers registered at startup and runs
// them on demand for the readiness endpoint.
type HealthRegistry interface {
	// Register adds a checker. It fails if the name is already taken.
	Register(checker HealthChecker) error

	// CheckAll runs every registered check concurrently and aggregates
	// the results.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the overall health state.
type HealthStatus string

const (
	// HealthStatusHealthy means every check passed.
	HealthStatusHealthy HealthStatus = "healthy"

	// HealthStatusUnhealthy means at least one check failed.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult aggregates one readiness pass over all checkers.
type HealthResult struct {
	// Status is unhealthy if any individual check failed.
	Status HealthStatus `json:"status"`

	// Checks holds per-component results keyed by checker name.
	Checks map[string]*CheckResult `json:"checks"`

	// Timestamp is when the pass ran.
	Timestamp time.Time `json:"timestamp"`
}

// CheckResult is the outcome of a single component's check.
type CheckResult struct {
	Status HealthStatus `json:"status"`

	// Message carries the failure reason when unhealthy.
	Message string `json:"message,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry is the concurrency-safe HealthRegistry used by
// the service binary.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{
		checkers: make([]HealthChecker, 0),
	}
}

// Register adds a checker, rejecting duplicate names so a readiness
// response never has ambiguous keys.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	for _, c := range r.checkers {
		if c.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs every check on its own goroutine so one slow dependency
// cannot serialize the rest, then folds the results into a single
// status.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := make([]HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult),
		Timestamp: time.Now(),
	}

	if len(checkers) == 0 {
		return result
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, checker := range checkers {
		wg.Add(1)

		go func(c HealthChecker) {
			defer wg.Done()

			checkResult := runCheck(ctx, c)

			mu.Lock()
			result.Checks[c.Name()] = checkResult
			if checkResult.Status == HealthStatusUnhealthy {
				result.Status = HealthStatusUnhealthy
			}
			mu.Unlock()
		}(checker)
	}

	wg.Wait()

	return result
}

// runCheck times a single check and translates its error into a result.
func runCheck(ctx context.Context, c HealthChecker) *CheckResult {
	start := time.Now()
	err := c.Check(ctx)

	checkResult := &CheckResult{
		Status:   HealthStatusHealthy,
		Duration: time.Since(start),
	}

	if err != nil {
		checkResult.Status = HealthStatusUnhealthy
		checkResult.Message = err.Error()
	}

	return checkResult
}
