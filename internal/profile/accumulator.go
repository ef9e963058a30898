package profile

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bedrijfslens/kvk-intel-api/internal/apperrors"
)

// SourceError is one structured failure, kept structured until the
// serialization boundary.
type SourceError struct {
	Source  string `json:"source"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Accumulator collects attribution and per-source errors across the
// orchestrator stages. Append-only and safe for concurrent use; sources
// are deduplicated, errors keep stage order.
type Accumulator struct {
	mu      sync.Mutex
	seen    map[string]bool
	bronnen []string
	errors  []SourceError
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{seen: make(map[string]bool)}
}

// AddSource records that a source contributed data, deduplicated by name
func (a *Accumulator) AddSource(source string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.seen[source] {
		return
	}
	a.seen[source] = true
	a.bronnen = append(a.bronnen, source)
}

// AddError records a failed source call
func (a *Accumulator) AddError(source string, err error) {
	message := err.Error()
	code := apperrors.CodeOf(err)
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, SourceError{Source: source, Code: code, Message: message})
}

// AddMessage records an informational entry that is not tied to a failure,
// such as the no-results message.
func (a *Accumulator) AddMessage(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, SourceError{Message: message})
}

// Bronnen returns the deduplicated attribution list in canonical sorted
// order. Sources are recorded inside concurrent stage goroutines, so the
// raw insertion order varies between otherwise identical runs.
func (a *Accumulator) Bronnen() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	bronnen := make([]string, len(a.bronnen))
	copy(bronnen, a.bronnen)
	sort.Strings(bronnen)
	return bronnen
}

// Errors returns the structured error list in stage order
func (a *Accumulator) Errors() []SourceError {
	a.mu.Lock()
	defer a.mu.Unlock()
	errors := make([]SourceError, len(a.errors))
	copy(errors, a.errors)
	return errors
}

// ErrorStrings formats the structured errors for the response meta
func (a *Accumulator) ErrorStrings() []string {
	formatted := make([]string, 0)
	for _, sourceError := range a.Errors() {
		if sourceError.Source == "" {
			formatted = append(formatted, sourceError.Message)
			continue
		}
		formatted = append(formatted, fmt.Sprintf("%s: %s", sourceError.Source, sourceError.Message))
	}
	return formatted
}

// ErrorCount returns the number of recorded entries
func (a *Accumulator) ErrorCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errors)
}
