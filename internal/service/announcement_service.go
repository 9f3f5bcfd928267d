package service

import (
	"CareLink/internal/api/dto"
	"CareLink/internal/pkg/consts"
	"CareLink/internal/pkg/mongo"
	"CareLink/internal/pkg/redis"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type AnnouncementService interface {
	GetList(ctx context.Context, readerRole string, readerID uint64, page, pageSize int) ([]*dto.AnnouncementDTO, error)
	MarkRead(ctx context.Context, readerRole string, readerID uint64, announcementID string) error
	GetUnreadCount(ctx context.Context, readerRole string, readerID uint64) (int64, error)
	Publish(ctx context.Context, a *mongo.AnnouncementModel) error
}

type announcementServiceImpl struct {
	annRepo mongo.AnnouncementRepo
}

func NewAnnouncementService(annRepo mongo.AnnouncementRepo) AnnouncementService {
	return &announcementServiceImpl{annRepo: annRepo}
}

// GetList 公告列表（倒序），并合并该读者的已读标记
func (s *announcementServiceImpl) GetList(ctx context.Context, readerRole string, readerID uint64, page, pageSize int) ([]*dto.AnnouncementDTO, error) {
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.annRepo.List(ctx, readerRole, limit, offset)
	if err != nil {
		return nil, err
	}

	readIDs, err := s.annRepo.ReadIDs(ctx, readerRole, readerID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AnnouncementDTO, 0, len(list))
	for _, m := range list {
		d := &dto.AnnouncementDTO{}
		_ = copier.Copy(d, m)
		d.ID = m.ID.Hex()
		d.PublishedAt = m.PublishedAt.UTC().Format(time.RFC3339)
		d.IsRead = readIDs[m.ID]
		res = append(res, d)
	}
	return res, nil
}

// MarkRead 标记单条已读。已读状态下为无操作（幂等）
func (s *announcementServiceImpl) MarkRead(ctx context.Context, readerRole string, readerID uint64, announcementID string) error {
	objectID, err := primitive.ObjectIDFromHex(announcementID)
	if err != nil {
		return ErrParamInvalid
	}

	if _, err := s.annRepo.GetByID(ctx, objectID); err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	if err := s.annRepo.MarkAsRead(ctx, objectID, readerRole, readerID); err != nil {
		return err
	}

	// 缓存的未读数随已读扣一，缓存不在则等下次查询重建
	if err := redis.DecrByFloor0(ctx, badgeAnnouncementKey(readerRole, readerID), 1); err != nil {
		log.WarnContext(ctx, "Failed to decrement announcement badge cache", "role", readerRole, "reader_id", readerID, "err", err)
	}
	return nil
}

// GetUnreadCount 未读公告数，Redis 缓存 30 秒
func (s *announcementServiceImpl) GetUnreadCount(ctx context.Context, readerRole string, readerID uint64) (int64, error) {
	key := badgeAnnouncementKey(readerRole, readerID)
	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		var total int64
		if _, serr := fmt.Sscanf(cached, "%d", &total); serr == nil {
			return total, nil
		}
	}

	total, err := s.annRepo.UnreadCount(ctx, readerRole, readerRole, readerID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, total, 30*time.Second)
	return total, nil
}

// Publish 运营后台发布公告（Kafka 消费侧调用）。
// 落库后按受众让角标缓存失效，读者下一次查询回源重算
func (s *announcementServiceImpl) Publish(ctx context.Context, a *mongo.AnnouncementModel) error {
	if a.Category == "" {
		a.Category = consts.AnnounceOther
	}
	if a.PublishedAt.IsZero() {
		a.PublishedAt = time.Now()
	}
	if err := s.annRepo.Create(ctx, a); err != nil {
		return err
	}

	pattern := announceBadgePattern(a.Audience)
	if keys, err := redis.ScanKeys(ctx, pattern); err != nil {
		log.WarnContext(ctx, "Failed to scan announcement badge caches", "pattern", pattern, "err", err)
	} else {
		for _, key := range keys {
			if err := redis.DeleteKey(ctx, key); err != nil {
				log.WarnContext(ctx, "Failed to invalidate announcement badge cache", "key", key, "err", err)
			}
		}
	}

	log.InfoContext(ctx, "Announcement published", "title", a.Title, "category", a.Category, "audience", a.Audience)
	return nil
}

// announceBadgePattern 新公告需要失效的角标缓存键模式，按受众收敛扫描范围
func announceBadgePattern(audience string) string {
	if audience == "" {
		return consts.BadgeAnnouncementKey + "*"
	}
	return consts.BadgeAnnouncementKey + audience + ":*"
}

func badgeAnnouncementKey(readerRole string, readerID uint64) string {
	return consts.BadgeAnnouncementKey + fmt.Sprintf("%s:%d", readerRole, readerID)
}
