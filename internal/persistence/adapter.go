package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"fansite/internal/model"
	"fansite/internal/store"
	"fansite/pkg/blob"
	"fansite/pkg/logger"
)

// 每个集合对应的数据块名称
const (
	BlobAnnouncements   = "announcements.json"
	BlobStreamSettings  = "streamSettings.json"
	BlobThemeSettings   = "themeSettings.json"
	BlobWebhookSettings = "webhookSettings.json"
	BlobLogs            = "logs.json"

	backupPrefix = "backup_"
)

// Adapter 负责快照的序列化、写入、备份和加载
type Adapter struct {
	blobs     blob.Store
	retention int
	now       func() time.Time
	logger    *logger.Logger
}

// NewAdapter 创建持久化适配器，retention为每个集合保留的备份数，0表示不清理
func NewAdapter(blobs blob.Store, retention int, logger *logger.Logger) *Adapter {
	return &Adapter{
		blobs:     blobs,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

// BackupKey 数据块在某一时刻的备份名称
func BackupKey(name string, at time.Time) string {
	return fmt.Sprintf("%s%s_%d", backupPrefix, name, at.UnixMilli())
}

// SaveAll 将快照中的每个集合写入各自的数据块并写入备份，
// 至少一个集合写入成功时在Webhook设置中记录备份时间并返回该时间
func (a *Adapter) SaveAll(ctx context.Context, snap store.Snapshot) (time.Time, error) {
	collections := []struct {
		name  string
		value interface{}
	}{
		{BlobAnnouncements, snap.Announcements},
		{BlobStreamSettings, snap.Stream},
		{BlobThemeSettings, snap.Theme},
		{BlobLogs, logsOrEmpty(snap.Logs)},
	}

	var errs error
	saved := 0
	for _, c := range collections {
		if err := a.write(ctx, c.name, c.value); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		saved++
	}

	if saved == 0 {
		return time.Time{}, errs
	}

	backupAt := a.now()
	webhook := snap.Webhook
	webhook.LastBackup = &backupAt
	if err := a.write(ctx, BlobWebhookSettings, webhook); err != nil {
		errs = multierr.Append(errs, err)
	}
	return backupAt, errs
}

// LoadAll 读取全部集合；缺失或无法解析的集合使用默认值，
// 返回的错误只说明哪些集合被重置，不影响其余集合
func (a *Adapter) LoadAll(ctx context.Context, defaultWebhookURL string) (store.Snapshot, error) {
	snap := store.Snapshot{
		Stream:  model.DefaultStreamSettings(),
		Theme:   model.DefaultThemeSettings(),
		Webhook: model.DefaultWebhookSettings(defaultWebhookURL),
	}

	var errs error
	if data, ok, err := a.read(ctx, BlobAnnouncements); err != nil {
		errs = multierr.Append(errs, err)
	} else if ok {
		state, err := decodeAnnouncements(data)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", BlobAnnouncements, err))
		} else {
			snap.Announcements = state
		}
	}

	errs = multierr.Append(errs, loadJSON(ctx, a, BlobStreamSettings, &snap.Stream, model.DefaultStreamSettings()))
	errs = multierr.Append(errs, loadJSON(ctx, a, BlobThemeSettings, &snap.Theme, model.DefaultThemeSettings()))
	errs = multierr.Append(errs, loadJSON(ctx, a, BlobWebhookSettings, &snap.Webhook, model.DefaultWebhookSettings(defaultWebhookURL)))

	var logs []model.SystemLog
	if err := loadJSON(ctx, a, BlobLogs, &logs, []model.SystemLog(nil)); err != nil {
		errs = multierr.Append(errs, err)
	}
	snap.Logs = logs

	return snap, errs
}

// Backups 返回某个集合的全部备份名称，按时间从旧到新
func (a *Adapter) Backups(ctx context.Context, name string) ([]string, error) {
	prefix := backupPrefix + name + "_"
	keys, err := a.blobs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	type backup struct {
		key string
		ts  int64
	}
	backups := make([]backup, 0, len(keys))
	for _, k := range keys {
		ts, err := strconv.ParseInt(strings.TrimPrefix(k, prefix), 10, 64)
		if err != nil {
			continue
		}
		backups = append(backups, backup{key: k, ts: ts})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].ts < backups[j].ts })

	out := make([]string, len(backups))
	for i, b := range backups {
		out[i] = b.key
	}
	return out, nil
}

// write 写入数据块及其备份，并清理超出保留数量的旧备份
func (a *Adapter) write(ctx context.Context, name string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: encode: %w", name, err)
	}
	if err := a.blobs.Put(ctx, name, data); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := a.blobs.Put(ctx, BackupKey(name, a.now()), data); err != nil {
		return fmt.Errorf("%s: backup: %w", name, err)
	}
	a.prune(ctx, name)
	return nil
}

func (a *Adapter) prune(ctx context.Context, name string) {
	if a.retention <= 0 {
		return
	}
	backups, err := a.Backups(ctx, name)
	if err != nil {
		a.logger.Warn("列出备份失败", "blob", name, "error", err)
		return
	}
	for len(backups) > a.retention {
		if err := a.blobs.Delete(ctx, backups[0]); err != nil {
			a.logger.Warn("删除旧备份失败", "key", backups[0], "error", err)
		}
		backups = backups[1:]
	}
}

// read 读取数据块，不存在时ok为false且没有错误
func (a *Adapter) read(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := a.blobs.Get(ctx, name)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", name, err)
	}
	return data, true, nil
}

// loadJSON 解析数据块到target，失败时把target重置为def
func loadJSON[T any](ctx context.Context, a *Adapter, name string, target *T, def T) error {
	data, ok, err := a.read(ctx, name)
	if err != nil || !ok {
		*target = def
		return err
	}
	decoded := def
	if err := json.Unmarshal(data, &decoded); err != nil {
		*target = def
		return fmt.Errorf("%s: decode: %w", name, err)
	}
	*target = decoded
	return nil
}

func logsOrEmpty(logs []model.SystemLog) []model.SystemLog {
	if logs == nil {
		return []model.SystemLog{}
	}
	return logs
}

// decodeAnnouncements 支持 {nextId, items} 格式，以及按ID为键的旧格式
func decodeAnnouncements(data []byte) (store.AnnouncementState, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return store.AnnouncementState{}, err
	}
	if _, ok := raw["items"]; ok {
		var state store.AnnouncementState
		if err := json.Unmarshal(data, &state); err != nil {
			return store.AnnouncementState{}, err
		}
		return state, nil
	}

	items := make([]model.Announcement, 0, len(raw))
	for key, msg := range raw {
		var a model.Announcement
		if err := json.Unmarshal(msg, &a); err != nil {
			return store.AnnouncementState{}, fmt.Errorf("record %s: %w", key, err)
		}
		if a.ID == 0 {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return store.AnnouncementState{}, fmt.Errorf("record %s: invalid id", key)
			}
			a.ID = id
		}
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return store.AnnouncementState{Items: items}, nil
}
