package service

import (
	"CareLink/internal/api/config"
	"CareLink/internal/api/dto"
	"CareLink/internal/model"
	"CareLink/internal/pkg/consts"
	"CareLink/internal/pkg/redis"
	"CareLink/internal/pkg/security"
	"CareLink/internal/pkg/util"
	"CareLink/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MessageService 工作者端与设施端共用的消息服务，视角由 role 参数决定
type MessageService interface {
	GetConversations(ctx context.Context, role string, actorID uint64) ([]*dto.ConversationDTO, error)
	GetHistory(ctx context.Context, role string, actorID, counterpartyID, cursor uint64, markAsRead bool) (*dto.MessagesPageDTO, error)
	SendMessage(ctx context.Context, role string, actorID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	MarkConversationRead(ctx context.Context, role string, actorID, counterpartyID uint64) error
	GetUnreadTotal(ctx context.Context, role string, actorID uint64) (int64, error)
}

type messageServiceImpl struct {
	appRepo repository.ApplicationRepo
	msgRepo repository.MessageRepo
}

func NewMessageService(appRepo repository.ApplicationRepo, msgRepo repository.MessageRepo) MessageService {
	return &messageServiceImpl{
		appRepo: appRepo,
		msgRepo: msgRepo,
	}
}

// conversationGroup 按对手方聚合后的中间结构
type conversationGroup struct {
	counterpartyID   uint64
	counterpartyName string
	avatarURL        string
	apps             []*model.Application
}

// GetConversations 会话列表：应募按对手方聚合，按最近活动倒序
func (s *messageServiceImpl) GetConversations(ctx context.Context, role string, actorID uint64) ([]*dto.ConversationDTO, error) {
	apps, err := s.listApplications(ctx, role, actorID)
	if err != nil {
		return nil, err
	}

	// 按对手方分组，保持最近活动优先的遍历顺序
	groups := make(map[uint64]*conversationGroup)
	var order []uint64
	for _, app := range apps {
		cpID, cpName, avatar := counterpartyOf(role, app)
		g, ok := groups[cpID]
		if !ok {
			g = &conversationGroup{counterpartyID: cpID, counterpartyName: cpName, avatarURL: avatar}
			groups[cpID] = g
			order = append(order, cpID)
		}
		g.apps = append(g.apps, app)
	}

	appIDs := make([]uint64, 0, len(apps))
	for _, app := range apps {
		appIDs = append(appIDs, app.ID)
	}

	// 批量取最新消息与未读数，避免 N+1
	lastMsgs, err := s.msgRepo.LastPerApplication(ctx, appIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.msgRepo.UnreadCountPerApplication(ctx, appIDs, role, actorID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(order))
	for _, cpID := range order {
		g := groups[cpID]

		d := &dto.ConversationDTO{
			CounterpartyID:   g.counterpartyID,
			CounterpartyName: g.counterpartyName,
			AvatarURL:        g.avatarURL,
			LastMessage:      consts.DefaultConversationPreview,
			Thread:           threadOf(g.apps),
		}

		for _, app := range g.apps {
			d.ApplicationIDs = append(d.ApplicationIDs, app.ID)
			d.UnreadCount += unread[app.ID]

			candidateAt := app.CreatedAt
			candidateMsg := ""
			if m, ok := lastMsgs[app.ID]; ok {
				candidateAt = m.CreatedAt
				candidateMsg = previewOf(m)
			}
			if candidateAt.After(d.LastMessageAt) {
				d.LastMessageAt = candidateAt
				if candidateMsg != "" {
					d.LastMessage = candidateMsg
				}
			}
		}
		res = append(res, d)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].LastMessageAt.After(res[j].LastMessageAt)
	})
	return res, nil
}

// GetHistory 游标分页的历史消息。markAsRead 只在第一页（cursor=0）生效
func (s *messageServiceImpl) GetHistory(ctx context.Context, role string, actorID, counterpartyID, cursor uint64, markAsRead bool) (*dto.MessagesPageDTO, error) {
	apps, err := s.applicationsBetween(ctx, role, actorID, counterpartyID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrConversationNotFound
	}

	appIDs := make([]uint64, 0, len(apps))
	appByID := make(map[uint64]*model.Application, len(apps))
	for _, app := range apps {
		appIDs = append(appIDs, app.ID)
		appByID[app.ID] = app
	}

	pageSize := config.Cfg.Message.PageSize

	// 多取一条探测是否还有更早的页
	messages, err := s.msgRepo.HistoryPage(ctx, appIDs, role, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > pageSize
	if hasMore {
		messages = messages[:pageSize]
	}

	var nextCursor uint64
	if hasMore && len(messages) > 0 {
		nextCursor = messages[len(messages)-1].ID
	}

	// 倒序取出，反转为升序返回
	page := make([]*dto.MessageDTO, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		page = append(page, s.toMessageDTO(messages[i], appByID))
	}

	// 第一页且要求已读时，把发给本人的未读消息置为已读
	if markAsRead && cursor == 0 {
		if affected, err := s.msgRepo.MarkRead(ctx, appIDs, role, actorID); err != nil {
			log.ErrorContext(ctx, "Failed to mark messages as read", "err", err)
		} else if affected > 0 {
			s.decrementBadge(ctx, role, actorID, affected)
		}
	}

	_, cpName, _ := counterpartyOf(role, apps[0])
	return &dto.MessagesPageDTO{
		CounterpartyID:   counterpartyID,
		CounterpartyName: cpName,
		ApplicationIDs:   appIDs,
		Messages:         page,
		NextCursor:       nextCursor,
		HasMore:          hasMore,
	}, nil
}

// SendMessage 发送消息：解析目标应募、校验内容、落库并返回确认后的消息
func (s *messageServiceImpl) SendMessage(ctx context.Context, role string, actorID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Attachments) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(req.Attachments) > config.Cfg.Message.MaxAttachments {
		return nil, ErrTooManyAttachments
	}

	app, err := s.resolveTarget(ctx, role, actorID, req)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ApplicationID: app.ID,
		Content:       content,
		Attachments:   model.AttachmentList(req.Attachments),
		CreatedAt:     time.Now(),
	}
	facilityID := app.WorkDate.Job.FacilityID
	if role == security.RoleWorker {
		msg.FromWorkerID = &actorID
		msg.ToFacilityID = &facilityID
	} else {
		workerID := app.WorkerID
		msg.FromFacilityID = &actorID
		msg.ToWorkerID = &workerID
	}

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		log.ErrorContext(ctx, "Failed to persist message", "application_id", app.ID, "err", err)
		return nil, UnExpectedError
	}

	// 对手方的未读角标缓存失效
	if role == security.RoleWorker {
		s.invalidateBadge(ctx, security.RoleFacility, facilityID)
	} else {
		s.invalidateBadge(ctx, security.RoleWorker, app.WorkerID)
	}

	appByID := map[uint64]*model.Application{app.ID: app}
	return s.toMessageDTO(msg, appByID), nil
}

// MarkConversationRead 将会话内发给本人的消息全部置为已读
func (s *messageServiceImpl) MarkConversationRead(ctx context.Context, role string, actorID, counterpartyID uint64) error {
	apps, err := s.applicationsBetween(ctx, role, actorID, counterpartyID)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		return ErrConversationNotFound
	}

	appIDs := make([]uint64, 0, len(apps))
	for _, app := range apps {
		appIDs = append(appIDs, app.ID)
	}

	affected, err := s.msgRepo.MarkRead(ctx, appIDs, role, actorID)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.decrementBadge(ctx, role, actorID, affected)
	}
	return nil
}

// GetUnreadTotal 全局未读消息数，Redis 缓存 30 秒
func (s *messageServiceImpl) GetUnreadTotal(ctx context.Context, role string, actorID uint64) (int64, error) {
	key := badgeMessageKey(role, actorID)
	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		if total, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
			return total, nil
		}
	}

	total, err := s.msgRepo.TotalUnread(ctx, role, actorID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, total, 30*time.Second)
	return total, nil
}

func (s *messageServiceImpl) listApplications(ctx context.Context, role string, actorID uint64) ([]*model.Application, error) {
	if role == security.RoleWorker {
		return s.appRepo.ListByWorker(ctx, actorID)
	}
	return s.appRepo.ListByFacility(ctx, actorID)
}

func (s *messageServiceImpl) applicationsBetween(ctx context.Context, role string, actorID, counterpartyID uint64) ([]*model.Application, error) {
	if role == security.RoleWorker {
		return s.appRepo.ListBetween(ctx, actorID, counterpartyID)
	}
	return s.appRepo.ListBetween(ctx, counterpartyID, actorID)
}

// resolveTarget 指定应募 ID 时校验归属；否则回退到双方最新的应募
func (s *messageServiceImpl) resolveTarget(ctx context.Context, role string, actorID uint64, req *dto.SendMessageReq) (*model.Application, error) {
	if req.ApplicationID > 0 {
		app, err := s.appRepo.GetByID(ctx, req.ApplicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoSendTarget
			}
			return nil, err
		}
		if !appInvolves(role, actorID, app) {
			return nil, UnauthorizedError
		}
		return app, nil
	}

	var workerID, facilityID uint64
	if role == security.RoleWorker {
		workerID, facilityID = actorID, req.CounterpartyID
	} else {
		workerID, facilityID = req.CounterpartyID, actorID
	}

	app, err := s.appRepo.LatestBetween(ctx, workerID, facilityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSendTarget
		}
		return nil, err
	}
	return app, nil
}

func (s *messageServiceImpl) invalidateBadge(ctx context.Context, role string, actorID uint64) {
	if err := redis.DeleteKey(ctx, badgeMessageKey(role, actorID)); err != nil {
		log.WarnContext(ctx, "Failed to invalidate badge cache", "role", role, "actor_id", actorID, "err", err)
	}
}

// decrementBadge 已读后对缓存的未读数做原地扣减，缓存不在则等下次查询重建
func (s *messageServiceImpl) decrementBadge(ctx context.Context, role string, actorID uint64, delta int64) {
	if err := redis.DecrByFloor0(ctx, badgeMessageKey(role, actorID), delta); err != nil {
		log.WarnContext(ctx, "Failed to decrement badge cache", "role", role, "actor_id", actorID, "err", err)
	}
}

func (s *messageServiceImpl) toMessageDTO(m *model.Message, appByID map[uint64]*model.Application) *dto.MessageDTO {
	d := &dto.MessageDTO{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		Content:       m.Content,
		Attachments:   m.Attachments,
		IsRead:        m.ReadAt != nil,
		CreatedAt:     m.CreatedAt,
	}
	if m.SenderIsWorker() {
		d.SenderRole = security.RoleWorker
	} else {
		d.SenderRole = security.RoleFacility
	}
	if app, ok := appByID[m.ApplicationID]; ok {
		if m.SenderIsWorker() {
			d.SenderName = app.Worker.Name
		} else {
			d.SenderName = facilityDisplayName(&app.WorkDate.Job.Facility)
		}
		d.JobTitle = app.WorkDate.Job.Title
		d.JobDate = app.WorkDate.WorkDate.Format("2006-01-02")
	}
	return d
}

// appInvolves 校验访问者是否为该应募的参与方
func appInvolves(role string, actorID uint64, app *model.Application) bool {
	if role == security.RoleWorker {
		return app.WorkerID == actorID
	}
	return app.WorkDate.Job.FacilityID == actorID
}

// counterpartyOf 返回应募在指定视角下的对手方信息
func counterpartyOf(role string, app *model.Application) (uint64, string, string) {
	if role == security.RoleWorker {
		f := &app.WorkDate.Job.Facility
		return f.ID, facilityDisplayName(f), f.StaffAvatar
	}
	return app.WorkerID, app.Worker.Name, app.Worker.AvatarURL
}

// threadOf 会话分类：存在未完成的应募则归为 SCHEDULED
func threadOf(apps []*model.Application) string {
	for _, app := range apps {
		if app.Status == model.ApplicationScheduled {
			return consts.ThreadScheduled
		}
	}
	return consts.ThreadCompleted
}

func previewOf(m *model.Message) string {
	if m.Content != "" {
		return util.TruncateRunes(m.Content, config.Cfg.Message.PreviewLength)
	}
	if len(m.Attachments) > 0 {
		return "添付ファイルが届きました"
	}
	return ""
}

func facilityDisplayName(f *model.Facility) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.FacilityName
}

func badgeMessageKey(role string, actorID uint64) string {
	return consts.BadgeMessageKey + fmt.Sprintf("%s:%d", role, actorID)
}
