package store

import (
	"sort"
	"sync"
	"time"

	"fansite/internal/model"
)

// MaxSystemLogs 系统日志最多保留条数
const MaxSystemLogs = 1000

// LogStore 系统日志环形缓冲
type LogStore struct {
	mu        sync.RWMutex
	entries   []model.SystemLog
	capacity  int
	nextID    int64
	now       func() time.Time
	persister Persister
}

// NewLogStore 创建系统日志存储
func NewLogStore(capacity int) *LogStore {
	if capacity <= 0 {
		capacity = MaxSystemLogs
	}
	return &LogStore{capacity: capacity, nextID: 1, now: time.Now}
}

// SetPersister 设置快照保存
func (s *LogStore) SetPersister(p Persister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persister = p
}

// Append 追加一条日志，超出容量时丢弃最旧的日志
func (s *LogStore) Append(level model.LogLevel, message, source string) model.SystemLog {
	if !level.Valid() {
		level = model.LogLevelInfo
	}
	if source == "" {
		source = model.SourceSystem
	}

	s.mu.Lock()
	entry := model.SystemLog{
		ID:        s.nextID,
		Level:     level,
		Message:   message,
		Source:    source,
		Timestamp: s.now(),
	}
	s.nextID++
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = append([]model.SystemLog(nil), s.entries[over:]...)
	}
	p := s.persister
	s.mu.Unlock()

	if p != nil {
		p.RequestSave()
	}
	return entry
}

// Recent 最新的limit条日志，按时间倒序
func (s *LogStore) Recent(limit int) []model.SystemLog {
	return s.filter(limit, func(model.SystemLog) bool { return true })
}

// Activity 后台动态使用的最新日志，不含系统内部错误
func (s *LogStore) Activity(limit int) []model.SystemLog {
	return s.filter(limit, func(l model.SystemLog) bool {
		return l.Level != model.LogLevelError || l.Source != model.SourceSystem
	})
}

// Len 当前日志条数
func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot 导出全部日志，按写入顺序
func (s *LogStore) Snapshot() []model.SystemLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SystemLog(nil), s.entries...)
}

// Restore 使用持久化的日志替换当前内容
func (s *LogStore) Restore(entries []model.SystemLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if over := len(entries) - s.capacity; over > 0 {
		entries = entries[over:]
	}
	s.entries = append([]model.SystemLog(nil), entries...)
	s.nextID = 1
	for _, e := range s.entries {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
}

func (s *LogStore) filter(limit int, keep func(model.SystemLog) bool) []model.SystemLog {
	s.mu.RLock()
	out := make([]model.SystemLog, 0, len(s.entries))
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
