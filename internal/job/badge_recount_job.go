package job

import (
	"CareLink/internal/pkg/consts"
	"CareLink/internal/pkg/logger"
	"CareLink/internal/pkg/mongo"
	"CareLink/internal/pkg/redis"
	"CareLink/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BadgeRecountJob 周期性用数据库真值校正角标缓存，抵消缓存漂移。
// 消息角标回源 MySQL，公告角标回源 Mongo
type BadgeRecountJob struct {
	msgRepo repository.MessageRepo
	annRepo mongo.AnnouncementRepo
}

func NewBadgeRecountJob(msgRepo repository.MessageRepo, annRepo mongo.AnnouncementRepo) *BadgeRecountJob {
	return &BadgeRecountJob{
		msgRepo: msgRepo,
		annRepo: annRepo,
	}
}

func (s *BadgeRecountJob) Run() {
	traceID := "job-badge-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 多实例部署时只允许一个实例执行
	locked, err := redis.TryLock(ctx, consts.BadgeRecountLock, traceID, time.Minute, 1)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.BadgeRecountLock, traceID)

	families := []struct {
		prefix string
		count  func(ctx context.Context, role string, actorID uint64) (int64, error)
	}{
		{consts.BadgeMessageKey, s.msgRepo.TotalUnread},
		{consts.BadgeAnnouncementKey, func(ctx context.Context, role string, actorID uint64) (int64, error) {
			return s.annRepo.UnreadCount(ctx, role, role, actorID)
		}},
	}

	scanned, refreshed := 0, 0
	for _, fam := range families {
		keys, err := redis.ScanKeys(ctx, fam.prefix+"*")
		if err != nil {
			log.ErrorContext(ctx, "scan badge keys error", "prefix", fam.prefix, "err", err)
			continue
		}
		scanned += len(keys)

		for _, key := range keys {
			role, actorID, ok := parseBadgeKey(fam.prefix, key)
			if !ok {
				continue
			}

			total, err := fam.count(ctx, role, actorID)
			if err != nil {
				log.ErrorContext(ctx, "recount unread error", "key", key, "err", err)
				continue
			}

			if err = redis.SetWithExpiration(ctx, key, total, 30*time.Second); err != nil {
				log.ErrorContext(ctx, "refresh badge cache error", "key", key, "err", err)
				continue
			}
			refreshed++
		}
	}

	log.InfoContext(ctx, "BadgeRecountJob finished", "scanned", scanned, "refreshed", refreshed)
}

// parseBadgeKey 从缓存键还原角色与访问者 ID
func parseBadgeKey(prefix, key string) (string, uint64, bool) {
	suffix := strings.TrimPrefix(key, prefix)
	parts := strings.Split(suffix, ":")
	if len(parts) != 2 {
		return "", 0, false
	}
	actorID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return parts[0], actorID, true
}
