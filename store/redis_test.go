package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/effective-security/toolagent/chatmodel"
	"github.com/effective-security/toolagent/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscon "github.com/testcontainers/testcontainers-go/modules/redis"
)

func Test_RedisStore(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	redisContainer, err := rediscon.Run(ctx, "redis:7",
		testcontainers.WithConfigModifier(func(config *container.Config) {
			config.Env = []string{
				"ALLOW_EMPTY_PASSWORD=yes",
			}
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, redisContainer.Terminate(ctx))
	})

	host, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	options, err := redis.ParseURL(host)
	require.NoError(t, err)

	client := redis.NewClient(options)
	require.NoError(t, client.Ping(ctx).Err(), "failed to connect to Redis")

	root := fmt.Sprintf("test-%d", time.Now().Unix())
	st := store.NewRedisStore(client, root, 3)
	assert.Equal(t, 3, st.Capacity())

	// without chat context the default chat is used
	require.NoError(t, st.Add(ctx, "no chat", chatmodel.SourceUser))
	assert.Equal(t, "User: no chat", st.Context(ctx))

	ctx1 := chatmodel.WithChatContext(ctx, chatmodel.NewChatContext("chat1", nil))
	ctx2 := chatmodel.WithChatContext(ctx, chatmodel.NewChatContext("chat2", nil))

	for i := 0; i < 5; i++ {
		require.NoError(t, st.Add(ctx1, fmt.Sprintf("q%d", i), chatmodel.SourceUser))
	}
	require.NoError(t, st.Add(ctx2, "other", chatmodel.SourceAgent))

	entries := st.Entries(ctx1)
	require.Len(t, entries, 3)
	assert.Equal(t, "q2", entries[0].Content)
	assert.Equal(t, "q4", entries[2].Content)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, "User: q2\nUser: q3\nUser: q4", st.Context(ctx1))
	assert.Equal(t, "Agent: other", st.Context(ctx2))

	// an entry with an unknown source is skipped
	key := "/" + root + "/convlog/chat2/entries"
	require.NoError(t, client.RPush(ctx, key, `{"content":"hi","source":"system"}`).Err())
	assert.Equal(t, "Agent: other", st.Context(ctx2))

	require.NoError(t, st.Reset(ctx1))
	assert.Empty(t, st.Entries(ctx1))
	assert.Len(t, st.Entries(ctx2), 1)
}
