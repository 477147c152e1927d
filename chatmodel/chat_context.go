package chatmodel

import (
	"context"
	"strconv"
	"sync"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// ChatContext identifies the conversation a turn belongs to.
// Persistent conversation logs use the chat ID as the key.
type ChatContext interface {
	GetChatID() string
	// AppData returns immutable app data
	AppData() any
	// RecordTurn records a completed turn and returns the number of turns.
	RecordTurn(turnID string) int
	// LastTurnID returns the ID of the last recorded turn, empty if none.
	LastTurnID() string
	// Turns returns the number of recorded turns.
	Turns() int
}

type chatContext struct {
	chatID  string
	appData any

	lock     sync.RWMutex
	lastTurn string
	turns    int
}

func (c *chatContext) GetChatID() string {
	return c.chatID
}

func (c *chatContext) AppData() any {
	return c.appData
}

func (c *chatContext) RecordTurn(turnID string) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lastTurn = turnID
	c.turns++
	return c.turns
}

func (c *chatContext) LastTurnID() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lastTurn
}

func (c *chatContext) Turns() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.turns
}

// NewChatContext returns a ChatContext,
// a new chat ID is generated when chatID is empty.
func NewChatContext(chatID string, appData any) ChatContext {
	return &chatContext{
		chatID:  values.StringsCoalesce(chatID, NewChatID()),
		appData: appData,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithChatContext returns a new context with ChatContext value
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, keyContext, chatCtx)
}

// GetChatContext retrieves the ChatContext from the context
func GetChatContext(ctx context.Context) ChatContext {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v
	}
	return nil
}

// GetChatID returns the chat ID of the context, empty if the context has no ChatContext.
func GetChatID(ctx context.Context) string {
	if v := GetChatContext(ctx); v != nil {
		return v.GetChatID()
	}
	return ""
}

// NewChatID generates a new chat ID using the flake ID generator.
func NewChatID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
