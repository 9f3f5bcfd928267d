package dto

import "time"

// ConversationDTO 会话列表项：按对手方（设施或工作者）聚合
type ConversationDTO struct {
	CounterpartyID   uint64    `json:"counterparty_id"`
	CounterpartyName string    `json:"counterparty_name"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	ApplicationIDs   []uint64  `json:"application_ids"`
	Thread           string    `json:"thread"` // SCHEDULED / COMPLETED / OFFICE
	LastMessage      string    `json:"last_message"`
	LastMessageAt    time.Time `json:"last_message_at"`
	UnreadCount      int64     `json:"unread_count"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID            uint64    `json:"id"`
	ApplicationID uint64    `json:"application_id"`
	SenderRole    string    `json:"sender_role"` // WORKER / FACILITY
	SenderName    string    `json:"sender_name"`
	Content       string    `json:"content"`
	Attachments   []string  `json:"attachments"`
	JobTitle      string    `json:"job_title,omitempty"`
	JobDate       string    `json:"job_date,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

// MessagesPageDTO 历史分页响应
type MessagesPageDTO struct {
	CounterpartyID   uint64        `json:"counterparty_id"`
	CounterpartyName string        `json:"counterparty_name"`
	ApplicationIDs   []uint64      `json:"application_ids"`
	Messages         []*MessageDTO `json:"messages"` // 升序
	NextCursor       uint64        `json:"next_cursor"` // 0 表示没有更早的页
	HasMore          bool          `json:"has_more"`
}

// SendMessageReq 发送消息请求体
type SendMessageReq struct {
	CounterpartyID uint64   `json:"counterparty_id" binding:"required"`
	ApplicationID  uint64   `json:"application_id"` // 0 时由服务端解析最新应募
	Content        string   `json:"content"`
	Attachments    []string `json:"attachments" binding:"max=3"`
}

// SendMessageResp 发送结果（确认后的 ID 与时间戳）
type SendMessageResp struct {
	Message *MessageDTO `json:"message"`
}

// MarkConversationReadReq 标记会话已读
type MarkConversationReadReq struct {
	CounterpartyID uint64 `json:"counterparty_id" binding:"required"`
}

// BadgeDTO 全局未读角标
type BadgeDTO struct {
	UnreadMessages      int64 `json:"unread_messages"`
	UnreadAnnouncements int64 `json:"unread_announcements"`
}
