package model

import "time"

// 应募状态
const (
	ApplicationScheduled = "SCHEDULED"
	ApplicationCompleted = "COMPLETED"
	ApplicationCanceled  = "CANCELED"
)

// Application 应募记录：工作者与设施之间消息线程的业务上下文
type Application struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkerID   uint64    `gorm:"index:idx_worker_workdate;not null" json:"workerId"`
	WorkDateID uint64    `gorm:"index:idx_worker_workdate;not null" json:"workDateId"`
	Status     string    `gorm:"type:varchar(16);not null;default:SCHEDULED" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `gorm:"index" json:"updatedAt"`

	Worker   Worker   `gorm:"foreignKey:WorkerID;references:ID" json:"worker"`
	WorkDate WorkDate `gorm:"foreignKey:WorkDateID;references:ID" json:"workDate"`
}

func (Application) TableName() string { return "applications" }
