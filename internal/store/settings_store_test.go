package store

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fansite/internal/model"
	"fansite/pkg/logger"
)

func TestSettingsDefaults(t *testing.T) {
	s := NewSettingsStore("https://hooks.example/1")

	assert.Equal(t, model.FeaturedAuto, s.Stream().FeaturedStream)
	assert.Equal(t, "default", s.Theme().CurrentTheme)
	w := s.Webhook()
	assert.Equal(t, "https://hooks.example/1", w.URL)
	assert.Equal(t, model.LogLevelInfo, w.LogLevel)
	assert.True(t, w.RealTimeLogging)
	assert.Nil(t, w.LastBackup)
}

func TestSetFeaturedStream(t *testing.T) {
	s := NewSettingsStore("")
	p := &countingPersister{}
	s.SetPersister(p)

	_, err := s.SetFeaturedStream("twitter", "")
	assert.True(t, IsValidation(err))

	out, err := s.SetFeaturedStream(model.FeaturedCustom, "https://embed.example")
	require.NoError(t, err)
	assert.Equal(t, "https://embed.example", out.CustomEmbedURL)
	assert.False(t, out.UpdatedAt.IsZero())

	// 非custom时保留原有嵌入地址
	out, err = s.SetFeaturedStream(model.FeaturedMain, "https://ignored.example")
	require.NoError(t, err)
	assert.Equal(t, "https://embed.example", out.CustomEmbedURL)
	assert.Equal(t, int32(2), atomic.LoadInt32(&p.n))
}

func TestThemeSettings(t *testing.T) {
	s := NewSettingsStore("")

	_, err := s.SetTheme(" ", nil)
	assert.True(t, IsValidation(err))

	out := s.SetCustomTheme(model.CustomTheme{PrimaryColor: "#fff"})
	assert.Equal(t, model.ThemeCustom, out.CurrentTheme)
	require.NotNil(t, out.CustomTheme)

	// 返回值是副本
	out.CustomTheme.PrimaryColor = "#000"
	assert.Equal(t, "#fff", s.Theme().CustomTheme.PrimaryColor)

	out, err = s.SetTheme("gold", nil)
	require.NoError(t, err)
	assert.Equal(t, "gold", out.CurrentTheme)
	assert.Equal(t, "#fff", out.CustomTheme.PrimaryColor)

	out = s.SetBackgroundImage("https://img.example/bg.png")
	assert.Equal(t, "https://img.example/bg.png", out.BackgroundImageURL)
}

func TestUpdateWebhook(t *testing.T) {
	s := NewSettingsStore("")

	_, err := s.UpdateWebhook("", model.LogLevelInfo, true)
	assert.True(t, IsValidation(err))
	_, err = s.UpdateWebhook("https://hooks.example", "debug", true)
	assert.True(t, IsValidation(err))

	out, err := s.UpdateWebhook("https://hooks.example", "", false)
	require.NoError(t, err)
	assert.Equal(t, model.LogLevelInfo, out.LogLevel)
	assert.False(t, out.RealTimeLogging)

	now := time.Now()
	s.MarkBackup(now)
	require.NotNil(t, s.Webhook().LastBackup)
	assert.True(t, s.Webhook().LastBackup.Equal(now))
}

func TestLogStoreRingBuffer(t *testing.T) {
	s := NewLogStore(3)
	for i := 1; i <= 5; i++ {
		s.Append(model.LogLevelInfo, fmt.Sprintf("m%d", i), "")
	}

	assert.Equal(t, 3, s.Len())
	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "m5", recent[0].Message)
	assert.Equal(t, "m4", recent[1].Message)
	assert.Equal(t, model.SourceSystem, recent[0].Source)
}

func TestLogStoreActivityFiltersSystemErrors(t *testing.T) {
	s := NewLogStore(10)
	s.Append(model.LogLevelError, "disk", model.SourceSystem)
	s.Append(model.LogLevelError, "api failed", model.SourceAPI)
	s.Append(model.LogLevelInfo, "login", model.SourceAuth)
	s.Append("verbose", "bad level", model.SourceAdmin)

	activity := s.Activity(10)
	require.Len(t, activity, 3)
	for _, a := range activity {
		assert.NotEqual(t, "disk", a.Message)
	}
	assert.Equal(t, model.LogLevelInfo, activity[0].Level)
}

func TestLogStoreRestoreContinuesIDs(t *testing.T) {
	s := NewLogStore(10)
	s.Restore([]model.SystemLog{{ID: 3, Message: "a"}, {ID: 9, Message: "b"}})
	e := s.Append(model.LogLevelInfo, "c", "")
	assert.Equal(t, int64(10), e.ID)
}

func TestStateSnapshotRestore(t *testing.T) {
	st := NewState(logger.NewNop(), "https://hooks.example")
	_, err := st.Announcements.Create(model.AnnouncementInput{Title: "A", Content: "c", IsPinned: true})
	require.NoError(t, err)
	_, err = st.Settings.SetFeaturedStream(model.FeaturedGaming, "")
	require.NoError(t, err)
	st.Logs.Append(model.LogLevelWarning, "w", model.SourceAuth)

	fresh := NewState(logger.NewNop(), "https://hooks.example")
	fresh.Restore(st.Snapshot())

	assert.Equal(t, st.Announcements.List(), fresh.Announcements.List())
	assert.Equal(t, model.FeaturedGaming, fresh.Settings.Stream().FeaturedStream)
	assert.Equal(t, st.Logs.Snapshot(), fresh.Logs.Snapshot())
}
