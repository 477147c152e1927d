package chatmodel_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/chatmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SourceLabel(t *testing.T) {
	assert.Equal(t, "User", chatmodel.SourceUser.Label())
	assert.Equal(t, "Agent", chatmodel.SourceAgent.Label())
	assert.Equal(t, "user", chatmodel.SourceUser.String())
}

func Test_ParseSource(t *testing.T) {
	s, err := chatmodel.ParseSource(" User ")
	require.NoError(t, err)
	assert.Equal(t, chatmodel.SourceUser, s)

	s, err = chatmodel.ParseSource("AGENT")
	require.NoError(t, err)
	assert.Equal(t, chatmodel.SourceAgent, s)

	_, err = chatmodel.ParseSource("system")
	assert.True(t, errors.Is(err, chatmodel.ErrInvalidSource))
	assert.EqualError(t, err, `"system": invalid source`)
}

func Test_NewEntry(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	chatmodel.TimeNowFn = func() time.Time { return now }
	defer func() { chatmodel.TimeNowFn = time.Now }()

	e := chatmodel.NewEntry("hi", chatmodel.SourceUser)
	assert.Equal(t, now, e.Timestamp)
	assert.Equal(t, "User: hi", e.String())
}

func Test_FormatContext(t *testing.T) {
	assert.Empty(t, chatmodel.FormatContext(nil))

	entries := []chatmodel.Entry{
		{Content: "What time is it?", Source: chatmodel.SourceUser},
		{Content: "It is noon.", Source: chatmodel.SourceAgent},
		{Content: "thanks", Source: chatmodel.SourceUser},
	}
	assert.Equal(t, "User: What time is it?\nAgent: It is noon.\nUser: thanks", chatmodel.FormatContext(entries))
}

func Test_Entry_Decode(t *testing.T) {
	var e chatmodel.Entry
	require.NoError(t, json.Unmarshal([]byte(`{"content":"hello","source":"Agent"}`), &e))
	assert.Equal(t, chatmodel.SourceAgent, e.Source)
	assert.Equal(t, "Agent: hello", e.String())

	err := json.Unmarshal([]byte(`{"content":"hello","source":"system"}`), &e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, chatmodel.ErrInvalidSource))
}
