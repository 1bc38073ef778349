// Package assist holds the completion-assisted workflows: categorize a
// conversation, summarize the dashboard, propose next steps. Each builds a
// prompt, calls the completion API once, and degrades to a static fallback
// on any failure instead of propagating service errors.
package assist

import (
	"context"
	"errors"

	"lifemanage/internal/store"
)

// ErrNoCredential means neither the session header nor the persisted
// settings row carries an API key.
var ErrNoCredential = errors.New("completion credential required")

// ErrService wraps completion-endpoint failures (network, non-2xx, empty
// response). Workflows never let it escape; it exists so tests and logs can
// tell service failure from everything else.
var ErrService = errors.New("completion service")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer issues one chat-completion call with the credential supplied at
// call time and returns the first choice's text.
type Completer interface {
	Complete(ctx context.Context, key string, msgs []Message, temperature float32) (string, error)
}

// Source records whether a workflow value came from the model or from the
// static fallback, so callers can tell a degraded answer from a real one.
type Source int

const (
	SourceModel Source = iota
	SourceFallback
)

func (s Source) Degraded() bool { return s == SourceFallback }

// Workflows bundles the gateway and the completion client. The credential
// is passed per call, not captured at construction: a mid-batch key change
// affects later items, which is accepted behavior.
type Workflows struct {
	Store     *store.Store
	Completer Completer
}
