package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"fansite/internal/model"
	"fansite/pkg/logger"
)

// AnnouncementState 公告集合的持久化形式，Items保持插入顺序
type AnnouncementState struct {
	NextID int64                `json:"nextId"`
	Items  []model.Announcement `json:"items"`
}

// AnnouncementStore 公告内存存储，保证任意时刻最多只有一条置顶公告
type AnnouncementStore struct {
	mu     sync.RWMutex
	items  []*model.Announcement
	index  map[int64]*model.Announcement
	nextID int64
	now    func() time.Time

	persister Persister
	notifier  Notifier
	logger    *logger.Logger
}

// NewAnnouncementStore 创建公告存储
func NewAnnouncementStore(logger *logger.Logger) *AnnouncementStore {
	return &AnnouncementStore{
		index:  make(map[int64]*model.Announcement),
		nextID: 1,
		now:    time.Now,
		logger: logger,
	}
}

// SetPersister 设置快照保存
func (s *AnnouncementStore) SetPersister(p Persister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persister = p
}

// SetNotifier 设置变更通知
func (s *AnnouncementStore) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// SetClock 替换时间来源
func (s *AnnouncementStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// List 返回全部公告：置顶公告在前，其余按创建时间倒序，时间相同保持插入顺序
func (s *AnnouncementStore) List() []model.Announcement {
	s.mu.RLock()
	out := make([]model.Announcement, len(s.items))
	for i, a := range s.items {
		out[i] = *a
	}
	s.mu.RUnlock()

	sortAnnouncements(out)
	return out
}

// Count 公告数量
func (s *AnnouncementStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get 根据ID获取公告
func (s *AnnouncementStore) Get(id int64) (model.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.index[id]
	if !ok {
		return model.Announcement{}, ErrNotFound
	}
	return *a, nil
}

// Create 创建公告
func (s *AnnouncementStore) Create(input model.AnnouncementInput) (model.Announcement, error) {
	if input.Category == "" {
		input.Category = model.CategoryGeneral
	}
	candidate := model.Announcement{
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category,
		IsPinned: input.IsPinned,
	}
	// 校验失败不消耗ID
	if err := validate(candidate); err != nil {
		return model.Announcement{}, err
	}

	s.mu.Lock()
	candidate.ID = s.nextID
	s.nextID++
	candidate.CreatedAt = s.now()

	var unpinned []int64
	if candidate.IsPinned {
		unpinned = s.unpinOthersLocked(candidate.ID)
	}
	a := candidate
	s.items = append(s.items, &a)
	s.index[a.ID] = &a
	persister, notifier := s.persister, s.notifier
	s.mu.Unlock()

	s.afterMutation(persister, notifier, Event{Type: EventCreated, Announcement: candidate, Unpinned: unpinned})
	return candidate, nil
}

// Update 部分更新公告，ID和创建时间不会改变
func (s *AnnouncementStore) Update(id int64, patch model.AnnouncementPatch) (model.Announcement, error) {
	s.mu.Lock()
	existing, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return model.Announcement{}, ErrNotFound
	}

	merged := *existing
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Content != nil {
		merged.Content = *patch.Content
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.IsPinned != nil {
		merged.IsPinned = *patch.IsPinned
	}
	if err := validate(merged); err != nil {
		s.mu.Unlock()
		return model.Announcement{}, err
	}

	var unpinned []int64
	if merged.IsPinned {
		unpinned = s.unpinOthersLocked(id)
	}
	*existing = merged
	persister, notifier := s.persister, s.notifier
	s.mu.Unlock()

	s.afterMutation(persister, notifier, Event{Type: EventUpdated, Announcement: merged, Unpinned: unpinned})
	return merged, nil
}

// Delete 删除公告
func (s *AnnouncementStore) Delete(id int64) error {
	s.mu.Lock()
	existing, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	removed := *existing
	delete(s.index, id)
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	persister, notifier := s.persister, s.notifier
	s.mu.Unlock()

	s.afterMutation(persister, notifier, Event{Type: EventDeleted, Announcement: removed})
	return nil
}

// Snapshot 导出当前状态
func (s *AnnouncementStore) Snapshot() AnnouncementState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]model.Announcement, len(s.items))
	for i, a := range s.items {
		items[i] = *a
	}
	return AnnouncementState{NextID: s.nextID, Items: items}
}

// Restore 使用持久化状态替换当前内容
func (s *AnnouncementStore) Restore(state AnnouncementState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]*model.Announcement, 0, len(state.Items))
	s.index = make(map[int64]*model.Announcement, len(state.Items))
	s.nextID = state.NextID
	for _, item := range state.Items {
		if _, dup := s.index[item.ID]; dup || item.ID <= 0 {
			s.logger.Warn("跳过无效的公告记录", "id", item.ID)
			continue
		}
		if item.Category == "" {
			item.Category = model.CategoryGeneral
		}
		a := item
		s.items = append(s.items, &a)
		s.index[a.ID] = &a
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
	if s.nextID < 1 {
		s.nextID = 1
	}

	// 数据被手工修改过时可能出现多条置顶，只保留最新的一条
	var pinned *model.Announcement
	for _, a := range s.items {
		if !a.IsPinned {
			continue
		}
		if pinned == nil || a.CreatedAt.After(pinned.CreatedAt) {
			if pinned != nil {
				pinned.IsPinned = false
			}
			pinned = a
		} else {
			a.IsPinned = false
		}
	}
}

// unpinOthersLocked 取消除keep以外所有公告的置顶，调用方必须持有写锁
func (s *AnnouncementStore) unpinOthersLocked(keep int64) []int64 {
	var unpinned []int64
	for _, a := range s.items {
		if a.ID != keep && a.IsPinned {
			a.IsPinned = false
			unpinned = append(unpinned, a.ID)
		}
	}
	return unpinned
}

func (s *AnnouncementStore) afterMutation(persister Persister, notifier Notifier, event Event) {
	if persister != nil {
		persister.RequestSave()
	}
	if notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("公告变更通知失败", "event", event.Type, "id", event.Announcement.ID, "panic", r)
		}
	}()
	notifier.Notify(event)
}

func validate(a model.Announcement) error {
	if strings.TrimSpace(a.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if strings.TrimSpace(a.Content) == "" {
		return invalid("content", "must not be empty")
	}
	if !a.Category.Valid() {
		return invalid("category", "must be one of general, stream, event, important")
	}
	return nil
}

func sortAnnouncements(items []model.Announcement) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsPinned != items[j].IsPinned {
			return items[i].IsPinned
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
