package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"fansite/config"
	"fansite/internal/middleware"
	"fansite/internal/model"
	"fansite/internal/service"
	"fansite/internal/store"
	"fansite/internal/twitch"
	"fansite/pkg/async"
	"fansite/pkg/discord"
	"fansite/pkg/logger"
)

type countingBackup struct{ n int32 }

func (b *countingBackup) RequestSave() { atomic.AddInt32(&b.n, 1) }

type testServer struct {
	router *gin.Engine
	state  *store.State
	backup *countingBackup
	cookie *http.Cookie
}

func newTestServer(t *testing.T, limiter *middleware.IPRateLimiter) *testServer {
	t.Helper()
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(hook.Close)

	log := logger.NewNop()
	cfg := &config.Config{
		Admin: config.AdminConfig{Username: "admin", Password: "pw", SessionTTL: time.Hour},
	}

	state := store.NewState(log, hook.URL)
	worker := async.NewWorker("webhook", 64, log)
	worker.Start(1)
	t.Cleanup(worker.Stop)

	activity := service.NewActivityService(state.Logs, state.Settings, discord.NewClient("Fansite", ""), worker, log)
	state.Announcements.SetNotifier(activity)
	auth, err := service.NewAuthService(cfg.Admin, service.NewMemorySessionStore(), activity, log)
	require.NoError(t, err)

	backup := &countingBackup{}
	router := SetupRouter(cfg, log, Services{
		Announcements: service.NewAnnouncementService(state.Announcements, log),
		Settings:      service.NewSettingsService(state.Settings, activity),
		Activity:      activity,
		Auth:          auth,
		Streams:       service.NewStreamService(twitch.NewMockProvider(twitch.DefaultProfiles("main", "gaming")...), "main", "gaming", log),
		Backup:        backup,
		LoginLimiter:  limiter,
	})
	return &testServer{router: router, state: state, backup: backup}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "ADMIN", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			s.cookie = c
		}
	}
	require.NotNil(t, s.cookie)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, nil)

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/announcements"},
		{http.MethodPatch, "/api/announcements/1"},
		{http.MethodDelete, "/api/announcements/1"},
		{http.MethodGet, "/api/admin/logs"},
		{http.MethodGet, "/api/admin/stream-settings"},
		{http.MethodPost, "/api/admin/backup"},
		{http.MethodPost, "/api/discord/log"},
	} {
		w := s.do(t, r.method, r.path, map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
		assert.Equal(t, "Unauthorized", decode[map[string]string](t, w)["message"])
	}
	assert.Zero(t, s.state.Announcements.Count())
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/check-auth", nil)
	assert.Equal(t, false, decode[map[string]bool](t, w)["authenticated"])

	s.login(t)
	assert.True(t, s.cookie.HttpOnly)
	w = s.do(t, http.MethodGet, "/api/admin/check-auth", nil)
	assert.Equal(t, true, decode[map[string]bool](t, w)["authenticated"])

	w = s.do(t, http.MethodPost, "/api/admin/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/admin/logs", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	s := newTestServer(t, middleware.NewIPRateLimiter(rate.Every(time.Hour), 2))
	body := map[string]string{"username": "admin", "password": "nope"}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/admin/login", body).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/admin/login", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/api/admin/login", body).Code)
}

func TestAnnouncementLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	s.login(t)

	w := s.do(t, http.MethodPost, "/api/announcements", map[string]interface{}{"title": "A", "content": "a", "isPinned": true})
	require.Equal(t, http.StatusCreated, w.Code)
	a := decode[model.Announcement](t, w)
	assert.Equal(t, model.CategoryGeneral, a.Category)

	w = s.do(t, http.MethodPost, "/api/announcements", map[string]interface{}{"title": "B", "content": "b", "category": "event", "isPinned": true})
	require.Equal(t, http.StatusCreated, w.Code)
	b := decode[model.Announcement](t, w)

	w = s.do(t, http.MethodGet, "/api/announcements", nil)
	list := decode[[]model.Announcement](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.True(t, list[0].IsPinned)
	assert.False(t, list[1].IsPinned)

	w = s.do(t, http.MethodPatch, "/api/announcements/"+itoa(a.ID), map[string]interface{}{"title": "A2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A2", decode[model.Announcement](t, w).Title)

	w = s.do(t, http.MethodDelete, "/api/announcements/"+itoa(b.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["success"])

	w = s.do(t, http.MethodGet, "/api/announcements/"+itoa(b.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnouncementErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.login(t)

	w := s.do(t, http.MethodPost, "/api/announcements", map[string]interface{}{"title": "", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/announcements", map[string]interface{}{"title": "x", "content": "x", "category": "gossip"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPatch, "/api/announcements/abc", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPatch, "/api/announcements/42", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodDelete, "/api/announcements/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/api/announcements/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.login(t)

	w := s.do(t, http.MethodPost, "/api/admin/stream-settings/featured", map[string]string{"featured": "custom", "customUrl": "https://embed.example"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://embed.example", decode[model.StreamSettings](t, w).CustomEmbedURL)

	w = s.do(t, http.MethodPost, "/api/admin/stream-settings/featured", map[string]string{"featured": "tiktok"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/admin/theme-settings/custom", map[string]string{"primaryColor": "#d4af37"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/theme", nil)
	theme := decode[model.ThemeSettings](t, w)
	assert.Equal(t, model.ThemeCustom, theme.CurrentTheme)
	assert.Equal(t, "#d4af37", theme.CustomTheme.PrimaryColor)

	w = s.do(t, http.MethodPost, "/api/admin/webhook-settings", map[string]string{"url": "https://hooks.example", "logLevel": "error"})
	require.Equal(t, http.StatusOK, w.Code)
	webhook := decode[model.WebhookSettings](t, w)
	assert.Equal(t, model.LogLevelError, webhook.LogLevel)
	assert.True(t, webhook.RealTimeLogging)

	w = s.do(t, http.MethodPost, "/api/admin/webhook-settings", map[string]string{"url": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodGet, "/api/announcements", nil)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[model.AdminStats](t, w).Visits)

	w = s.do(t, http.MethodGet, "/api/admin/metrics/viewers", nil)
	assert.Len(t, decode[[]model.ViewerMetric](t, w), 7)

	w = s.do(t, http.MethodGet, "/api/admin/activity", nil)
	items := decode[[]model.ActivityItem](t, w)
	require.NotEmpty(t, items)
	assert.Equal(t, "user-shield", items[0].Icon)

	w = s.do(t, http.MethodPost, "/api/admin/backup", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&s.backup.n))

	w = s.do(t, http.MethodGet, "/api/admin/logs", nil)
	logs := decode[[]model.SystemLog](t, w)
	assert.Equal(t, "Manual backup requested", logs[0].Message)
}

func TestDiscordLogRejectsEmptyEmbeds(t *testing.T) {
	s := newTestServer(t, nil)
	s.login(t)

	w := s.do(t, http.MethodPost, "/api/discord/log", map[string]interface{}{"embeds": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/discord/log", map[string]interface{}{"embeds": []map[string]string{{"title": "x", "description": "y"}}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTwitchEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/twitch/streamers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[model.StreamersStatus](t, w)
	require.NotNil(t, all.Main)
	assert.Equal(t, "main", all.Main.Login)

	w = s.do(t, http.MethodGet, "/api/twitch/streams/nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[model.StreamerStatus](t, w).IsLive)

	w = s.do(t, http.MethodGet, "/api/twitch/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
