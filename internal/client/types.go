package client

import (
	"errors"
	"time"
)

// SendStatus 本地消息的发送状态。服务器返回的历史一律视为 sent
type SendStatus string

const (
	StatusSending SendStatus = "sending"
	StatusSent    SendStatus = "sent"
	StatusFailed  SendStatus = "failed"
)

// RetryPayload 重发所需的完整输入，消息确认后即丢弃
type RetryPayload struct {
	CounterpartyID uint64
	ApplicationID  uint64
	Content        string
	Attachments    []string
}

// ChatMessage 本地消息窗口中的一条消息。
// ID 为负表示尚未被服务器确认的占位消息，确认后原位替换为服务器 ID。
type ChatMessage struct {
	ID            int64
	ApplicationID uint64
	SenderRole    string
	SenderName    string
	Content       string
	Attachments   []string
	JobTitle      string
	JobDate       string
	IsRead        bool
	CreatedAt     time.Time
	SendStatus    SendStatus
	Retry         *RetryPayload
}

// Pending 是否为未确认的占位消息
func (m *ChatMessage) Pending() bool { return m.ID < 0 }

// ConversationFilter 会话列表的客户端过滤条件（不触发重新拉取）
type ConversationFilter string

const (
	FilterAll       ConversationFilter = "all"
	FilterUnread    ConversationFilter = "unread"
	FilterScheduled ConversationFilter = "scheduled"
	FilterCompleted ConversationFilter = "completed"
	FilterOffice    ConversationFilter = "office"
)

var (
	ErrEmptyMessage       = errors.New("本文または添付ファイルを入力してください")
	ErrTooManyAttachments = errors.New("添付ファイルは3件までです")
	ErrNoSendTarget       = errors.New("送信先の応募が見つかりません")
	ErrNoConversation     = errors.New("会話が選択されていません")
	ErrMessageNotFound    = errors.New("対象のメッセージが見つかりません")
	ErrNotRetryable       = errors.New("送信失敗したメッセージのみ再送できます")
	ErrFileNotSupported   = errors.New("このファイル形式には対応していません")
	ErrFileTooLarge       = errors.New("ファイルサイズが上限を超えています")
)
