package twitch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/rand"

	"fansite/internal/model"
)

// StatusProvider 查询频道直播状态
type StatusProvider interface {
	Status(ctx context.Context, channel string) (model.StreamerStatus, error)
}

// ChannelProfile 模拟频道的静态资料
type ChannelProfile struct {
	Name         string
	Login        string
	Title        string
	Game         string
	ProfileImage string
	Thumbnail    string
	// LivePercent 开播概率，0-100
	LivePercent int
	MinViewers  int
	MaxViewers  int
	MaxUptime   time.Duration
}

// MockProvider 随机生成直播状态，只认识配置的频道，其余频道一律离线
type MockProvider struct {
	channels map[string]ChannelProfile
	intn     func(n int) int
	now      func() time.Time
}

// NewMockProvider 创建模拟状态提供者
func NewMockProvider(profiles ...ChannelProfile) *MockProvider {
	channels := make(map[string]ChannelProfile, len(profiles))
	for _, p := range profiles {
		channels[strings.ToLower(p.Login)] = p
	}
	return &MockProvider{channels: channels, intn: rand.Intn, now: time.Now}
}

// DefaultProfiles 主频道和游戏频道的默认资料
func DefaultProfiles(mainChannel, gamingChannel string) []ChannelProfile {
	return []ChannelProfile{
		{
			Name:         strings.ToUpper(mainChannel),
			Login:        strings.ToLower(mainChannel),
			Title:        "IRL Tokyo Exploration!",
			Game:         "Just Chatting",
			ProfileImage: "https://images.unsplash.com/photo-1511367461989-f85a21fda167?w=96&q=80",
			Thumbnail:    "https://images.unsplash.com/photo-1502519144081-acca18599776?w=600&q=80",
			LivePercent:  50,
			MinViewers:   500,
			MaxViewers:   2500,
			MaxUptime:    3 * time.Hour,
		},
		{
			Name:         strings.ToUpper(gamingChannel),
			Login:        strings.ToLower(gamingChannel),
			Title:        "Gaming Chill Stream",
			Game:         "Cyberpunk 2077",
			ProfileImage: "https://images.unsplash.com/photo-1511367461989-f85a21fda167?w=96&q=80",
			Thumbnail:    "https://images.unsplash.com/photo-1542751371-adc38448a05e?w=600&q=80",
			LivePercent:  30,
			MinViewers:   200,
			MaxViewers:   1200,
			MaxUptime:    2 * time.Hour,
		},
	}
}

// Status 查询频道状态
func (p *MockProvider) Status(ctx context.Context, channel string) (model.StreamerStatus, error) {
	if err := ctx.Err(); err != nil {
		return model.StreamerStatus{}, err
	}
	login := strings.ToLower(strings.TrimSpace(channel))
	if login == "" {
		return model.StreamerStatus{}, fmt.Errorf("channel is empty")
	}

	profile, ok := p.channels[login]
	if !ok {
		return model.StreamerStatus{
			Name:  channel,
			Login: login,
			URL:   channelURL(login),
		}, nil
	}

	status := model.StreamerStatus{
		Name:         profile.Name,
		Login:        profile.Login,
		URL:          channelURL(profile.Login),
		ProfileImage: profile.ProfileImage,
		IsLive:       p.intn(100) < profile.LivePercent,
	}
	if !status.IsLive {
		return status, nil
	}

	started := p.now().Add(-time.Duration(p.intn(int(profile.MaxUptime/time.Second)+1)) * time.Second)
	status.Title = profile.Title
	status.Game = profile.Game
	status.Viewers = profile.MinViewers + p.intn(profile.MaxViewers-profile.MinViewers+1)
	status.StartedAt = &started
	status.Thumbnail = profile.Thumbnail
	return status, nil
}

func channelURL(login string) string {
	return "https://www.twitch.tv/" + login
}
