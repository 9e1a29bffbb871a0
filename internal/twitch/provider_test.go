package twitch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedProvider(n int) *MockProvider {
	p := NewMockProvider(DefaultProfiles("Main", "Gaming")...)
	p.intn = func(int) int { return n }
	p.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestMockProviderLive(t *testing.T) {
	s, err := fixedProvider(0).Status(context.Background(), "MAIN")
	require.NoError(t, err)

	assert.True(t, s.IsLive)
	assert.Equal(t, "main", s.Login)
	assert.Equal(t, "https://www.twitch.tv/main", s.URL)
	assert.Equal(t, 500, s.Viewers)
	require.NotNil(t, s.StartedAt)
	assert.Equal(t, "Just Chatting", s.Game)
}

func TestMockProviderOffline(t *testing.T) {
	s, err := fixedProvider(99).Status(context.Background(), "gaming")
	require.NoError(t, err)

	assert.False(t, s.IsLive)
	assert.Zero(t, s.Viewers)
	assert.Nil(t, s.StartedAt)
	assert.Empty(t, s.Title)
}

func TestMockProviderUnknownChannelIsOffline(t *testing.T) {
	s, err := fixedProvider(0).Status(context.Background(), "someone")
	require.NoError(t, err)

	assert.False(t, s.IsLive)
	assert.Equal(t, "someone", s.Name)
	assert.Equal(t, "https://www.twitch.tv/someone", s.URL)
}

func TestMockProviderRejectsEmptyChannel(t *testing.T) {
	_, err := fixedProvider(0).Status(context.Background(), " ")
	assert.Error(t, err)
}

func TestMockProviderViewerRange(t *testing.T) {
	p := NewMockProvider(DefaultProfiles("main", "gaming")...)
	for i := 0; i < 200; i++ {
		s, err := p.Status(context.Background(), "main")
		require.NoError(t, err)
		if s.IsLive {
			assert.GreaterOrEqual(t, s.Viewers, 500)
			assert.LessOrEqual(t, s.Viewers, 2500)
		}
	}
}
