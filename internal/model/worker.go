package model

import "time"

// Worker 介护工作者
type Worker struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	AvatarURL string    `gorm:"type:varchar(255)" json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Worker) TableName() string { return "workers" }
