package model

import "time"

// Job 求人（工作岗位）
type Job struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityID uint64    `gorm:"index;not null" json:"facilityId"`
	Title      string    `gorm:"type:varchar(128);not null" json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Facility Facility `gorm:"foreignKey:FacilityID;references:ID" json:"facility"`
}

func (Job) TableName() string { return "jobs" }

// WorkDate 求人的具体勤务日
type WorkDate struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID    uint64    `gorm:"index;not null" json:"jobId"`
	WorkDate time.Time `gorm:"type:date;not null" json:"workDate"`

	Job Job `gorm:"foreignKey:JobID;references:ID" json:"job"`
}

func (WorkDate) TableName() string { return "work_dates" }
