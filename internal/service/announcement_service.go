package service

import (
	"context"
	"errors"

	"fansite/internal/model"
	"fansite/internal/store"
	"fansite/pkg/logger"
)

// AnnouncementService 公告服务
type AnnouncementService struct {
	store  *store.AnnouncementStore
	logger *logger.Logger
}

// NewAnnouncementService 创建公告服务实例
func NewAnnouncementService(store *store.AnnouncementStore, logger *logger.Logger) *AnnouncementService {
	return &AnnouncementService{store: store, logger: logger}
}

// List 获取全部公告，置顶在前，其余按创建时间倒序
func (s *AnnouncementService) List(ctx context.Context) []model.Announcement {
	return s.store.List()
}

// Count 公告数量
func (s *AnnouncementService) Count() int {
	return s.store.Count()
}

// Get 根据ID获取公告详情
func (s *AnnouncementService) Get(ctx context.Context, id int64) (model.Announcement, error) {
	return s.store.Get(id)
}

// Create 创建公告
func (s *AnnouncementService) Create(ctx context.Context, input model.AnnouncementInput) (model.Announcement, error) {
	a, err := s.store.Create(input)
	if err != nil {
		s.logFailure("创建公告失败", 0, err)
		return model.Announcement{}, err
	}
	return a, nil
}

// Update 局部更新公告
func (s *AnnouncementService) Update(ctx context.Context, id int64, patch model.AnnouncementPatch) (model.Announcement, error) {
	a, err := s.store.Update(id, patch)
	if err != nil {
		s.logFailure("更新公告失败", id, err)
		return model.Announcement{}, err
	}
	return a, nil
}

// Delete 删除公告
func (s *AnnouncementService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(id); err != nil {
		s.logFailure("删除公告失败", id, err)
		return err
	}
	return nil
}

// logFailure 校验和不存在错误属于调用方问题，只记录调试日志
func (s *AnnouncementService) logFailure(msg string, id int64, err error) {
	if store.IsValidation(err) || errors.Is(err, store.ErrNotFound) {
		s.logger.Debug(msg, "id", id, "error", err)
		return
	}
	s.logger.Error(msg, "id", id, "error", err)
}
