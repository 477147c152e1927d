// Package store provides bounded conversation logs.
//
// A conversation log keeps the N most recent entries of a conversation,
// evicting the oldest entry once the capacity is exceeded, and renders them as
// the textual context used to build prompts.
package store

import (
	"context"

	"github.com/effective-security/toolagent/chatmodel"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolagent", "store")

// DefaultCapacity is the number of entries kept when no capacity is given.
const DefaultCapacity = 10

// ConversationLog is a fixed-capacity, insertion-ordered record of past turns.
type ConversationLog interface {
	// Add appends a timestamped entry, evicting the oldest entries
	// so that at most Capacity entries remain.
	Add(ctx context.Context, content string, source chatmodel.Source) error
	// Entries returns the retained entries in chronological order.
	Entries(ctx context.Context) []chatmodel.Entry
	// Context returns the entries rendered as "<Source>: <content>" lines.
	Context(ctx context.Context) string
	// Capacity returns the maximum number of retained entries.
	Capacity() int
	// Reset removes all entries.
	Reset(ctx context.Context) error
}

func normalizeCapacity(capacity int) int {
	if capacity <= 0 {
		return DefaultCapacity
	}
	return capacity
}
