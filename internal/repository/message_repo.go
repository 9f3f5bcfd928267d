package repository

import (
	"CareLink/internal/model"
	"CareLink/internal/pkg/security"
	"context"
	"time"

	"gorm.io/gorm"
)

type MessageRepo interface {
	Create(ctx context.Context, msg *model.Message) error
	HistoryPage(ctx context.Context, appIDs []uint64, viewerRole string, cursor uint64, limit int) ([]*model.Message, error)
	LastPerApplication(ctx context.Context, appIDs []uint64) (map[uint64]*model.Message, error)
	UnreadCountPerApplication(ctx context.Context, appIDs []uint64, viewerRole string, viewerID uint64) (map[uint64]int64, error)
	MarkRead(ctx context.Context, appIDs []uint64, viewerRole string, viewerID uint64) (int64, error)
	TotalUnread(ctx context.Context, viewerRole string, viewerID uint64) (int64, error)
}

type messageRepoImpl struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepoImpl{db: db}
}

// Create 落库并带动应募记录的活动时间（会话列表排序依据）
func (s *messageRepoImpl) Create(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Application{}).
			Where("id = ?", msg.ApplicationID).
			Update("updated_at", time.Now()).Error
	})
}

// viewerScope 限定查询到接收方视角。设施端不展示发给工作者的专用消息，反之亦然
func viewerScope(viewerRole string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewerRole == security.RoleWorker {
			// 设施专用消息（to_facility_id 有值且非本人可见）不出现在工作者端
			return db.Where("to_worker_id IS NOT NULL OR from_worker_id IS NOT NULL")
		}
		return db.Where("to_facility_id IS NOT NULL OR from_facility_id IS NOT NULL")
	}
}

// HistoryPage 游标分页：取 id < cursor 的消息，按 id 降序取 limit 条。
// 调用方传 limit+1 以探测是否还有更早的页。cursor 为 0 表示第一页。
func (s *messageRepoImpl) HistoryPage(ctx context.Context, appIDs []uint64, viewerRole string, cursor uint64, limit int) ([]*model.Message, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}

	q := s.db.WithContext(ctx).
		Scopes(viewerScope(viewerRole)).
		Where("application_id IN ?", appIDs)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}

	var messages []*model.Message
	err := q.Order("id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

// LastPerApplication 批量取每个应募的最新一条消息（会话列表预览，防 N+1）
func (s *messageRepoImpl) LastPerApplication(ctx context.Context, appIDs []uint64) (map[uint64]*model.Message, error) {
	if len(appIDs) == 0 {
		return map[uint64]*model.Message{}, nil
	}

	var messages []*model.Message
	err := s.db.WithContext(ctx).
		Where("application_id IN ?", appIDs).
		Where("id IN (?)", s.db.Model(&model.Message{}).
			Select("MAX(id)").
			Where("application_id IN ?", appIDs).
			Group("application_id")).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	res := make(map[uint64]*model.Message, len(messages))
	for _, m := range messages {
		res[m.ApplicationID] = m
	}
	return res, nil
}

// UnreadCountPerApplication 批量统计发给接收方且未读的消息数
func (s *messageRepoImpl) UnreadCountPerApplication(ctx context.Context, appIDs []uint64, viewerRole string, viewerID uint64) (map[uint64]int64, error) {
	if len(appIDs) == 0 {
		return map[uint64]int64{}, nil
	}

	type row struct {
		ApplicationID uint64
		Cnt           int64
	}
	var rows []row

	q := s.db.WithContext(ctx).Model(&model.Message{}).
		Select("application_id, COUNT(id) AS cnt").
		Where("application_id IN ? AND read_at IS NULL", appIDs)
	if viewerRole == security.RoleWorker {
		q = q.Where("to_worker_id = ?", viewerID)
	} else {
		q = q.Where("to_facility_id = ?", viewerID)
	}

	if err := q.Group("application_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	res := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		res[r.ApplicationID] = r.Cnt
	}
	return res, nil
}

// MarkRead 将发给接收方的未读消息置为已读，返回影响行数
func (s *messageRepoImpl) MarkRead(ctx context.Context, appIDs []uint64, viewerRole string, viewerID uint64) (int64, error) {
	if len(appIDs) == 0 {
		return 0, nil
	}

	q := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("application_id IN ? AND read_at IS NULL", appIDs)
	if viewerRole == security.RoleWorker {
		q = q.Where("to_worker_id = ?", viewerID)
	} else {
		q = q.Where("to_facility_id = ?", viewerID)
	}

	res := q.Update("read_at", time.Now())
	return res.RowsAffected, res.Error
}

// TotalUnread 全局未读总数（角标）
func (s *messageRepoImpl) TotalUnread(ctx context.Context, viewerRole string, viewerID uint64) (int64, error) {
	var total int64
	q := s.db.WithContext(ctx).Model(&model.Message{}).Where("read_at IS NULL")
	if viewerRole == security.RoleWorker {
		q = q.Where("to_worker_id = ?", viewerID)
	} else {
		q = q.Where("to_facility_id = ?", viewerID)
	}
	err := q.Count(&total).Error
	return total, err
}
