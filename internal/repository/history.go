package repository

import (
	"time"

	"dirmirror/internal/db"
	"dirmirror/internal/model"
)

type HistoryRepository struct{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Save(jobID uint, event model.SyncEvent) error {
	status := model.StatusSuccess
	errMsg := ""
	if event.Kind == model.EventError {
		status = model.StatusFailed
		if event.Err != nil {
			errMsg = event.Err.Error()
		}
	}

	at := event.At
	if at.IsZero() {
		at = time.Now()
	}

	src, dst := event.Subject(), ""
	if event.Kind == model.EventCopy {
		dst = event.To
	}

	history := model.History{
		JobID:    jobID,
		Status:   status,
		Kind:     event.Kind,
		SrcPath:  src,
		DstPath:  dst,
		ErrMsg:   errMsg,
		SyncedAt: at,
	}

	return db.DB.Create(&history).Error
}

type Stats struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("status = ?", model.StatusSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Order("synced_at desc").
		Order("id desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Where("status = ?", model.StatusFailed).
		Order("synced_at desc").
		Order("id desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}
