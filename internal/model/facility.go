package model

import "time"

// Facility 介护设施
type Facility struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityName string    `gorm:"type:varchar(128);not null" json:"facilityName"`
	DisplayName  string    `gorm:"type:varchar(128)" json:"displayName"` // 对外展示名（可与正式名不同）
	StaffAvatar  string    `gorm:"type:varchar(255)" json:"staffAvatar"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Facility) TableName() string { return "facilities" }
