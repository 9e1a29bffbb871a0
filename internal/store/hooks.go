package store

import "fansite/internal/model"

// EventType 公告变更类型
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event 一次成功的公告变更
type Event struct {
	Type         EventType
	Announcement model.Announcement
	// Unpinned 因本次置顶而被取消置顶的公告ID
	Unpinned []int64
}

// Persister 请求异步保存快照，不能阻塞调用方
type Persister interface {
	RequestSave()
}

// Notifier 变更通知，尽力而为，不能阻塞调用方
type Notifier interface {
	Notify(event Event)
}
