package repository

import (
	"dirmirror/internal/db"
	"dirmirror/internal/model"
)

type JobRepository struct{}

func NewJobRepository() *JobRepository {
	return &JobRepository{}
}

func (r *JobRepository) Add(src, dst string, del bool, depth int) (model.Job, error) {
	job := model.Job{
		Src:    src,
		Dst:    dst,
		Delete: del,
		Depth:  depth,
	}

	return job, db.DB.Create(&job).Error
}

func (r *JobRepository) GetAll() ([]model.Job, error) {
	var jobs []model.Job
	return jobs, db.DB.Order("id").Find(&jobs).Error
}

func (r *JobRepository) GetByID(id uint) (model.Job, error) {
	var job model.Job
	return job, db.DB.First(&job, id).Error
}

func (r *JobRepository) Delete(id uint) error {
	return db.DB.Delete(&model.Job{}, id).Error
}
