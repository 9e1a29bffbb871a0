package model

import "time"

// Category 公告分类
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryStream    Category = "stream"
	CategoryEvent     Category = "event"
	CategoryImportant Category = "important"
)

// Categories 全部合法分类
var Categories = []Category{CategoryGeneral, CategoryStream, CategoryEvent, CategoryImportant}

// Valid 是否为合法分类
func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryStream, CategoryEvent, CategoryImportant:
		return true
	}
	return false
}

// Announcement 公告模型
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnnouncementInput 创建公告参数
type AnnouncementInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category"`
	IsPinned bool     `json:"isPinned"`
}

// AnnouncementPatch 部分更新公告参数，nil字段保持不变
type AnnouncementPatch struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Category *Category `json:"category"`
	IsPinned *bool     `json:"isPinned"`
}
