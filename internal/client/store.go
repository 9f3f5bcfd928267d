package client

import (
	"CareLink/internal/api/dto"
	"CareLink/internal/pkg/consts"
	"context"
	"sort"
	"sync"
)

// ChatStore 当前会话屏幕持有的本地同步状态：
// 会话目录缓存、选中会话的消息窗口、分页游标与待发附件。
// 所有网络调用都在锁外进行，响应按选会话时的代次（generation）过滤，
// 过期响应不会污染新选中会话的窗口。
type ChatStore struct {
	mu     sync.Mutex
	api    MessagingAPI
	badges BadgeCounter
	role   string

	conversations []*dto.ConversationDTO

	activeKey      uint64
	generation     uint64
	window         []*ChatMessage
	applicationIDs []uint64
	nextCursor     uint64
	hasMore        bool
	loadingOlder   bool

	pendingAttachments []string
	uploading          bool

	nextPlaceholder int64
}

func NewChatStore(api MessagingAPI, badges BadgeCounter, role string) *ChatStore {
	return &ChatStore{
		api:    api,
		badges: badges,
		role:   role,
	}
}

// RefreshConversations 重新拉取会话目录。失败时保留上一次的缓存
func (s *ChatStore) RefreshConversations(ctx context.Context) error {
	list, err := s.api.ListConversations(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conversations = list
	s.mu.Unlock()
	return nil
}

// Conversations 按过滤条件返回目录快照。过滤在已拉取的列表上进行，不重新请求
func (s *ChatStore) Conversations(filter ConversationFilter) []*dto.ConversationDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]*dto.ConversationDTO, 0, len(s.conversations))
	for _, conv := range s.conversations {
		if matchFilter(conv, filter) {
			res = append(res, conv)
		}
	}
	return res
}

func matchFilter(conv *dto.ConversationDTO, filter ConversationFilter) bool {
	switch filter {
	case FilterUnread:
		return conv.UnreadCount > 0
	case FilterScheduled:
		return conv.Thread == consts.ThreadScheduled
	case FilterCompleted:
		return conv.Thread == consts.ThreadCompleted
	case FilterOffice:
		return conv.Thread == consts.ThreadOffice
	default:
		return true
	}
}

// SelectConversation 切换会话：丢弃旧窗口与游标后拉取最新一页。
// 若该会话有未读，首页请求同时在服务端置为已读，并乐观扣减角标。
func (s *ChatStore) SelectConversation(ctx context.Context, counterpartyID uint64) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.activeKey = counterpartyID
	s.window = nil
	s.applicationIDs = nil
	s.nextCursor = 0
	s.hasMore = false
	s.loadingOlder = false
	unread := s.unreadLocked(counterpartyID)
	s.mu.Unlock()

	markAsRead := unread > 0
	page, err := s.api.GetMessages(ctx, counterpartyID, 0, markAsRead)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.generation != gen {
		// 响应到达前用户已切走，丢弃
		s.mu.Unlock()
		return nil
	}
	s.window = make([]*ChatMessage, 0, len(page.Messages))
	for _, m := range page.Messages {
		s.window = append(s.window, fromDTO(m))
	}
	s.applicationIDs = page.ApplicationIDs
	s.nextCursor = page.NextCursor
	s.hasMore = page.HasMore
	s.mu.Unlock()

	if markAsRead {
		s.badges.MessageDelta(-unread)
		_ = s.RefreshConversations(ctx)
	}
	return nil
}

// LoadOlder 向前翻一页并把结果去重后前插到窗口头部，
// 返回实际合并的条数，供调用方恢复滚动位置。
// 已有请求在途、没有更早的页或尚未选中会话时不发起请求。
func (s *ChatStore) LoadOlder(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.activeKey == 0 {
		s.mu.Unlock()
		return 0, ErrNoConversation
	}
	if s.loadingOlder || !s.hasMore || s.nextCursor == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.loadingOlder = true
	gen := s.generation
	key := s.activeKey
	cursor := s.nextCursor
	s.mu.Unlock()

	page, err := s.api.GetMessages(ctx, key, cursor, false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return 0, nil
	}
	s.loadingOlder = false
	if err != nil {
		// 游标与窗口原样保留，调用方可直接重试
		return 0, err
	}

	seen := make(map[int64]bool, len(s.window))
	for _, m := range s.window {
		seen[m.ID] = true
	}

	merged := make([]*ChatMessage, 0, len(page.Messages))
	for _, m := range page.Messages {
		if seen[int64(m.ID)] {
			continue
		}
		merged = append(merged, fromDTO(m))
	}

	s.window = append(merged, s.window...)
	s.nextCursor = page.NextCursor
	s.hasMore = page.HasMore
	return len(merged), nil
}

// RefreshLatest 重新拉取最新一页并合并进窗口：新到的已确认消息按 ID 去重后
// 归位（升序），未确认（sending/failed）消息保持在尾部不动。
// 发送确认后调用，把发送期间落库的对方消息补进窗口。
func (s *ChatStore) RefreshLatest(ctx context.Context) error {
	s.mu.Lock()
	if s.activeKey == 0 {
		s.mu.Unlock()
		return ErrNoConversation
	}
	gen := s.generation
	key := s.activeKey
	s.mu.Unlock()

	page, err := s.api.GetMessages(ctx, key, 0, false)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}

	seen := make(map[int64]bool, len(s.window))
	confirmed := make([]*ChatMessage, 0, len(s.window)+len(page.Messages))
	pending := make([]*ChatMessage, 0, 2)
	for _, m := range s.window {
		seen[m.ID] = true
		if m.Pending() {
			pending = append(pending, m)
		} else {
			confirmed = append(confirmed, m)
		}
	}
	for _, m := range page.Messages {
		if seen[int64(m.ID)] {
			continue
		}
		confirmed = append(confirmed, fromDTO(m))
	}
	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i].ID < confirmed[j].ID })

	s.window = append(confirmed, pending...)
	if len(page.ApplicationIDs) > 0 {
		s.applicationIDs = page.ApplicationIDs
	}
	return nil
}

// MarkConversationRead 显式将会话置为已读。已读会话为无操作。
// 角标先行扣减，服务端确认失败也不回滚，由下一次 SyncBadges 对齐
func (s *ChatStore) MarkConversationRead(ctx context.Context, counterpartyID uint64) error {
	s.mu.Lock()
	unread := s.unreadLocked(counterpartyID)
	s.mu.Unlock()
	if unread == 0 {
		return nil
	}

	s.badges.MessageDelta(-unread)
	if err := s.api.MarkConversationRead(ctx, counterpartyID); err != nil {
		return err
	}
	return s.RefreshConversations(ctx)
}

// SyncBadges 用服务器真值覆盖本地角标
func (s *ChatStore) SyncBadges(ctx context.Context) error {
	badges, err := s.api.GetBadges(ctx)
	if err != nil {
		return err
	}
	s.badges.Set(badges.UnreadMessages, badges.UnreadAnnouncements)
	return nil
}

// Messages 当前窗口快照（升序，未确认消息排在已确认之后）
func (s *ChatStore) Messages() []*ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*ChatMessage, len(s.window))
	copy(res, s.window)
	return res
}

func (s *ChatStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *ChatStore) IsLoadingOlder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingOlder
}

func (s *ChatStore) ActiveConversation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeKey
}

func (s *ChatStore) unreadLocked(counterpartyID uint64) int64 {
	for _, conv := range s.conversations {
		if conv.CounterpartyID == counterpartyID {
			return conv.UnreadCount
		}
	}
	return 0
}

// fromDTO 服务器消息进入本地窗口时隐式视为 sent
func fromDTO(m *dto.MessageDTO) *ChatMessage {
	return &ChatMessage{
		ID:            int64(m.ID),
		ApplicationID: m.ApplicationID,
		SenderRole:    m.SenderRole,
		SenderName:    m.SenderName,
		Content:       m.Content,
		Attachments:   m.Attachments,
		JobTitle:      m.JobTitle,
		JobDate:       m.JobDate,
		IsRead:        m.IsRead,
		CreatedAt:     m.CreatedAt,
		SendStatus:    StatusSent,
	}
}
