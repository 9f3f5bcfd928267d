package client

import (
	"CareLink/internal/api/dto"
	"context"
	"sync"
)

// AnnouncementReader 公告阅读器：单向通知流，只有已读标记会变化
type AnnouncementReader struct {
	mu     sync.Mutex
	api    MessagingAPI
	badges BadgeCounter

	list     []*dto.AnnouncementDTO
	page     int
	pageSize int
}

func NewAnnouncementReader(api MessagingAPI, badges BadgeCounter, pageSize int) *AnnouncementReader {
	return &AnnouncementReader{
		api:      api,
		badges:   badges,
		page:     1,
		pageSize: pageSize,
	}
}

// Refresh 拉取当前页。失败时保留上一次的列表
func (s *AnnouncementReader) Refresh(ctx context.Context) error {
	s.mu.Lock()
	page, pageSize := s.page, s.pageSize
	s.mu.Unlock()

	list, err := s.api.ListAnnouncements(ctx, page, pageSize)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	return nil
}

// List 公告列表快照
func (s *AnnouncementReader) List() []*dto.AnnouncementDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*dto.AnnouncementDTO, len(s.list))
	copy(res, s.list)
	return res
}

// Open 打开一条公告。未读时：本地已读标记立即翻转、
// 远端置为已读、角标扣减 1、再刷新列表对齐。已读公告为无操作。
func (s *AnnouncementReader) Open(ctx context.Context, announcementID string) (*dto.AnnouncementDTO, error) {
	s.mu.Lock()
	var target *dto.AnnouncementDTO
	for _, a := range s.list {
		if a.ID == announcementID {
			target = a
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return nil, ErrMessageNotFound
	}
	if target.IsRead {
		s.mu.Unlock()
		return target, nil
	}
	target.IsRead = true
	s.mu.Unlock()

	// 已读是尽力而为的路径：远端失败不回滚本地标记
	if err := s.api.MarkAnnouncementRead(ctx, announcementID); err != nil {
		return target, err
	}
	s.badges.AnnouncementDelta(-1)
	_ = s.Refresh(ctx)
	return target, nil
}
