// Package facts fetches short, child-friendly facts about a body from an
// OpenAI-compatible chat endpoint.
//
// Nothing here fails past the package boundary: every problem becomes a
// fallback sentence the info panel can show as-is.
package facts

import (
	"context"
	"errors"
	"fmt"
)

// Fallback sentences.
const (
	MissingKeyText  = "API key missing. Cannot fetch a fact right now."
	UnavailableText = "The stars are hiding behind the clouds today. (fact service unavailable)"
	BusyText        = "Too many questions at once. Ask again in a moment."
)

// EmptyText is shown when the model answers with nothing.
func EmptyText(name string) string {
	return fmt.Sprintf("No fact about %s right now.", name)
}

var (
	ErrNoAPIKey    = errors.New("no API key configured")
	ErrEmpty       = errors.New("empty response")
	ErrRateLimited = errors.New("rate limited")
)

// Source produces a fact about the named body. It always returns
// displayable text.
type Source interface {
	Fact(ctx context.Context, name string) string
}

// Generator asks a model for a fact and reports failures.
type Generator interface {
	Generate(ctx context.Context, name string) (string, error)
}

// Static is a Generator that always returns the same answer. The CLI uses
// Static{Err: ErrNoAPIKey} in place of the model when no API key is set.
type Static struct {
	Text string
	Err  error
}

// Generate implements Generator.
func (s Static) Generate(_ context.Context, _ string) (string, error) {
	return s.Text, s.Err
}

// Outcome labels a finished request.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeCached      Outcome = "cached"
	OutcomeMissingKey  Outcome = "missing_key"
	OutcomeEmpty       Outcome = "empty"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeError       Outcome = "error"
)

// fallback maps a generator error to its outcome and display text.
func fallback(name string, err error) (Outcome, string) {
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return OutcomeMissingKey, MissingKeyText
	case errors.Is(err, ErrEmpty):
		return OutcomeEmpty, EmptyText(name)
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited, BusyText
	default:
		return OutcomeError, UnavailableText
	}
}
