// Package llm wraps the hosted chat-completion API behind a narrow
// interface the router consumes.
package llm

import (
	"context"

	"github.com/xcorat/araliya-bot/store"
)

// Reply is a generated assistant response plus call metadata
// (model, token usage, response time, finish reason).
type Reply struct {
	Message  string
	Metadata map[string]any
}

// Chatter generates assistant replies. Implementations must be safe for
// concurrent use; request handlers share one instance.
type Chatter interface {
	// GenerateReply produces a completion for userMessage given the
	// prior conversation and an optional retrieved-context block.
	GenerateReply(ctx context.Context, history []store.Message, userMessage, ragContext string) (*Reply, error)

	// CheckConnectivity reports whether the upstream API is reachable
	// with the configured credentials.
	CheckConnectivity(ctx context.Context) bool
}
