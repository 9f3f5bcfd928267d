package client

import (
	"CareLink/internal/api/dto"
	"context"
	"strings"
	"time"
)

// Send 乐观发送：先以负数占位 ID 追加到窗口尾部，再提交到服务端。
// 成功时占位消息原位替换为确认后的 ID 与时间戳，失败时转为 failed 并保留重发载荷。
// 返回的消息指针在整个生命周期内不变，调用方可据此追踪状态。
func (s *ChatStore) Send(ctx context.Context, text string, attachments []string) (*ChatMessage, error) {
	content := strings.TrimSpace(text)
	if content == "" && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(attachments) > maxAttachments {
		return nil, ErrTooManyAttachments
	}

	s.mu.Lock()
	if s.activeKey == 0 {
		s.mu.Unlock()
		return nil, ErrNoConversation
	}
	appID := s.resolveApplicationLocked()
	if appID == 0 {
		s.mu.Unlock()
		return nil, ErrNoSendTarget
	}

	s.nextPlaceholder--
	msg := &ChatMessage{
		ID:            s.nextPlaceholder,
		ApplicationID: appID,
		SenderRole:    s.role,
		Content:       content,
		Attachments:   attachments,
		CreatedAt:     time.Now(),
		SendStatus:    StatusSending,
		Retry: &RetryPayload{
			CounterpartyID: s.activeKey,
			ApplicationID:  appID,
			Content:        content,
			Attachments:    attachments,
		},
	}
	s.window = append(s.window, msg)
	placeholderID := msg.ID
	s.mu.Unlock()

	err := s.submit(ctx, placeholderID)
	return msg, err
}

// Retry 重发一条 failed 消息。复用保留的载荷与同一个占位 ID，不会产生第二条消息
func (s *ChatStore) Retry(ctx context.Context, messageID int64) error {
	s.mu.Lock()
	msg := s.findLocked(messageID)
	if msg == nil {
		s.mu.Unlock()
		return ErrMessageNotFound
	}
	if msg.SendStatus != StatusFailed {
		s.mu.Unlock()
		return ErrNotRetryable
	}
	msg.SendStatus = StatusSending
	s.mu.Unlock()

	return s.submit(ctx, messageID)
}

// Discard 从本地窗口移除一条 failed 消息。不发起网络请求，不可恢复
func (s *ChatStore) Discard(messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, msg := range s.window {
		if msg.ID != messageID {
			continue
		}
		if msg.SendStatus != StatusFailed {
			return ErrNotRetryable
		}
		s.window = append(s.window[:i], s.window[i+1:]...)
		return nil
	}
	return ErrMessageNotFound
}

// submit 执行远端发送并按结果迁移占位消息的状态
func (s *ChatStore) submit(ctx context.Context, placeholderID int64) error {
	s.mu.Lock()
	msg := s.findLocked(placeholderID)
	if msg == nil || msg.Retry == nil {
		s.mu.Unlock()
		return ErrMessageNotFound
	}
	payload := *msg.Retry
	gen := s.generation
	s.mu.Unlock()

	confirmed, err := s.api.SendMessage(ctx, &dto.SendMessageReq{
		CounterpartyID: payload.CounterpartyID,
		ApplicationID:  payload.ApplicationID,
		Content:        payload.Content,
		Attachments:    payload.Attachments,
	})

	s.mu.Lock()
	if s.generation != gen {
		// 用户已切走，占位消息已随旧窗口一起丢弃
		s.mu.Unlock()
		return nil
	}
	msg = s.findLocked(placeholderID)
	if msg == nil {
		s.mu.Unlock()
		return nil
	}
	if err != nil || confirmed == nil {
		// 保留载荷，消息停在原位等待重发或丢弃
		msg.SendStatus = StatusFailed
		s.mu.Unlock()
		return err
	}

	// 原位替换，窗口长度不变
	msg.ID = int64(confirmed.ID)
	msg.CreatedAt = confirmed.CreatedAt
	msg.SenderName = confirmed.SenderName
	msg.JobTitle = confirmed.JobTitle
	msg.JobDate = confirmed.JobDate
	msg.SendStatus = StatusSent
	msg.Retry = nil
	s.mu.Unlock()

	// 目录与消息窗口都对齐服务器真值，失败不影响已确认的消息
	_ = s.RefreshConversations(ctx)
	_ = s.RefreshLatest(ctx)
	return nil
}

// resolveApplicationLocked 发送目标：优先目录提供的应募，
// 其次回退到窗口内任意一条消息携带的应募，都没有则拒绝发送
func (s *ChatStore) resolveApplicationLocked() uint64 {
	if n := len(s.applicationIDs); n > 0 {
		return s.applicationIDs[n-1]
	}
	for i := len(s.window) - 1; i >= 0; i-- {
		if s.window[i].ApplicationID > 0 {
			return s.window[i].ApplicationID
		}
	}
	return 0
}

func (s *ChatStore) findLocked(messageID int64) *ChatMessage {
	for _, msg := range s.window {
		if msg.ID == messageID {
			return msg
		}
	}
	return nil
}
