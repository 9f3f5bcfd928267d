package repository

import (
	"CareLink/internal/model"
	"context"

	"gorm.io/gorm"
)

type ApplicationRepo interface {
	ListByWorker(ctx context.Context, workerID uint64) ([]*model.Application, error)
	ListByFacility(ctx context.Context, facilityID uint64) ([]*model.Application, error)
	ListBetween(ctx context.Context, workerID, facilityID uint64) ([]*model.Application, error)
	LatestBetween(ctx context.Context, workerID, facilityID uint64) (*model.Application, error)
	GetByID(ctx context.Context, appID uint64) (*model.Application, error)
}

type applicationRepoImpl struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepo {
	return &applicationRepoImpl{db: db}
}

// preload 预加载消息线程展示所需的全部业务上下文
func (s *applicationRepoImpl) preload(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Worker").
		Preload("WorkDate").
		Preload("WorkDate.Job").
		Preload("WorkDate.Job.Facility")
}

// ListByWorker 工作者的全部应募，按最近活动排序
func (s *applicationRepoImpl) ListByWorker(ctx context.Context, workerID uint64) ([]*model.Application, error) {
	var apps []*model.Application
	err := s.preload(ctx).
		Where("worker_id = ?", workerID).
		Order("updated_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListByFacility 设施收到的全部应募，按最近活动排序
func (s *applicationRepoImpl) ListByFacility(ctx context.Context, facilityID uint64) ([]*model.Application, error) {
	var apps []*model.Application
	err := s.preload(ctx).
		Joins("JOIN work_dates wd ON wd.id = applications.work_date_id").
		Joins("JOIN jobs j ON j.id = wd.job_id").
		Where("j.facility_id = ?", facilityID).
		Order("applications.updated_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListBetween 指定工作者与设施之间的全部应募
func (s *applicationRepoImpl) ListBetween(ctx context.Context, workerID, facilityID uint64) ([]*model.Application, error) {
	var apps []*model.Application
	err := s.preload(ctx).
		Joins("JOIN work_dates wd ON wd.id = applications.work_date_id").
		Joins("JOIN jobs j ON j.id = wd.job_id").
		Where("applications.worker_id = ? AND j.facility_id = ?", workerID, facilityID).
		Order("applications.created_at DESC").
		Find(&apps).Error
	return apps, err
}

// LatestBetween 双方之间最新的应募，作为发送消息的默认目标
func (s *applicationRepoImpl) LatestBetween(ctx context.Context, workerID, facilityID uint64) (*model.Application, error) {
	var app model.Application
	err := s.preload(ctx).
		Joins("JOIN work_dates wd ON wd.id = applications.work_date_id").
		Joins("JOIN jobs j ON j.id = wd.job_id").
		Where("applications.worker_id = ? AND j.facility_id = ?", workerID, facilityID).
		Order("applications.created_at DESC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByID 根据 ID 获取应募记录
func (s *applicationRepoImpl) GetByID(ctx context.Context, appID uint64) (*model.Application, error) {
	var app model.Application
	err := s.preload(ctx).First(&app, appID).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}
