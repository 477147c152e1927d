package store

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/chatmodel"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

// The redis store keeps the bounded log of each chat in a Redis list.
// The chat ID is taken from the chatmodel.ChatContext in the request context,
// the store's default chat ID is used when the context has none.
// The keys namespace is organized as follows:
// - `/<prefix>/convlog/<chatID>/entries` for the JSON encoded entries, oldest first

type redisStore struct {
	client        *redis.Client
	prefix        string
	capacity      int
	defaultChatID string
}

// NewRedisStore returns a conversation log persisted in Redis.
// Every Add trims the list to the last capacity entries.
func NewRedisStore(client *redis.Client, prefix string, capacity int) ConversationLog {
	return &redisStore{
		client:        client,
		prefix:        prefix,
		capacity:      normalizeCapacity(capacity),
		defaultChatID: chatmodel.NewChatID(),
	}
}

func (m *redisStore) Capacity() int {
	return m.capacity
}

func (m *redisStore) getRedisEntriesKey(ctx context.Context) string {
	chatID := chatmodel.GetChatID(ctx)
	if chatID == "" {
		chatID = m.defaultChatID
	}
	return path.Join("/", m.prefix, "convlog", chatID, "entries")
}

func (m *redisStore) Add(ctx context.Context, content string, source chatmodel.Source) error {
	data, err := json.Marshal(chatmodel.NewEntry(content, source))
	if err != nil {
		return errors.Wrap(err, "failed to marshal entry")
	}

	key := m.getRedisEntriesKey(ctx)
	pipe := m.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, int64(-m.capacity), -1)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to store entry in Redis")
	}
	return nil
}

func (m *redisStore) Entries(ctx context.Context) []chatmodel.Entry {
	key := m.getRedisEntriesKey(ctx)
	data, err := m.client.LRange(ctx, key, int64(-m.capacity), -1).Result()
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "LRange", "key", key, "err", err.Error())
		return nil
	}

	var entries []chatmodel.Entry
	for _, item := range data {
		var e chatmodel.Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal entry", "err", err.Error())
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func (m *redisStore) Context(ctx context.Context) string {
	return chatmodel.FormatContext(m.Entries(ctx))
}

func (m *redisStore) Reset(ctx context.Context) error {
	err := m.client.Del(ctx, m.getRedisEntriesKey(ctx)).Err()
	if err != nil {
		return errors.Wrap(err, "failed to reset conversation log in Redis")
	}
	return nil
}
