package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidMessage 消息格式不合法
var ErrInvalidMessage = errors.New("invalid webhook message")

// Field 嵌入字段
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Footer 嵌入页脚
type Footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// Image 缩略图
type Image struct {
	URL string `json:"url"`
}

// Author 嵌入作者
type Author struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Embed Discord嵌入消息
type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Footer      *Footer `json:"footer,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Thumbnail   *Image  `json:"thumbnail,omitempty"`
	Author      *Author `json:"author,omitempty"`
}

// Message Webhook消息体
type Message struct {
	Content   string  `json:"content,omitempty"`
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// Validate 校验消息，content和embeds至少一个，且每个嵌入都需要description
func (m Message) Validate() error {
	if strings.TrimSpace(m.Content) == "" && len(m.Embeds) == 0 {
		return fmt.Errorf("%w: content or embeds required", ErrInvalidMessage)
	}
	for i, e := range m.Embeds {
		if strings.TrimSpace(e.Description) == "" {
			return fmt.Errorf("%w: embed %d has no description", ErrInvalidMessage, i)
		}
		for j, f := range e.Fields {
			if f.Name == "" || f.Value == "" {
				return fmt.Errorf("%w: embed %d field %d is empty", ErrInvalidMessage, i, j)
			}
		}
	}
	return nil
}

// Client Discord Webhook客户端
type Client struct {
	Username   string
	AvatarURL  string
	HTTPClient *http.Client
}

// NewClient 创建Webhook客户端
func NewClient(username, avatarURL string) *Client {
	return &Client{
		Username:   username,
		AvatarURL:  avatarURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send 发送消息到webhookURL，未设置用户名和头像时使用默认值
func (c *Client) Send(ctx context.Context, webhookURL string, msg Message) error {
	if webhookURL == "" {
		return errors.New("webhook url is empty")
	}
	if msg.Username == "" {
		msg.Username = c.Username
	}
	if msg.AvatarURL == "" {
		msg.AvatarURL = c.AvatarURL
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("构建请求体失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("发送webhook请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook返回错误, status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// SendEmbeds 发送一个或多个嵌入
func (c *Client) SendEmbeds(ctx context.Context, webhookURL string, embeds ...Embed) error {
	return c.Send(ctx, webhookURL, Message{Embeds: embeds})
}
