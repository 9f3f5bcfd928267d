package model

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

// AttachmentList 附件 URL 列表，落库为 JSON 字符串
type AttachmentList []string

func (a AttachmentList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	return string(b), err
}

func (a *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported attachment column type")
	}
}

// Message 消息明细。发送方二选一：FromWorkerID / FromFacilityID
type Message struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicationID  uint64         `gorm:"index:idx_app_created;not null" json:"applicationId"`
	FromWorkerID   *uint64        `gorm:"index" json:"fromWorkerId"`
	FromFacilityID *uint64        `gorm:"index" json:"fromFacilityId"`
	ToWorkerID     *uint64        `gorm:"index:idx_to_worker_read" json:"toWorkerId"`
	ToFacilityID   *uint64        `gorm:"index:idx_to_facility_read" json:"toFacilityId"`
	Content        string         `gorm:"type:text" json:"content"`
	Attachments    AttachmentList `gorm:"type:json" json:"attachments"`
	ReadAt         *time.Time     `gorm:"index:idx_to_worker_read;index:idx_to_facility_read" json:"readAt"`
	CreatedAt      time.Time      `gorm:"index:idx_app_created" json:"createdAt"`

	Application Application `gorm:"foreignKey:ApplicationID;references:ID" json:"application"`
}

func (Message) TableName() string { return "messages" }

// SenderIsWorker 判断发送方是否为工作者
func (m *Message) SenderIsWorker() bool { return m.FromWorkerID != nil }
